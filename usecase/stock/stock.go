package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/repository"
)

// Service manages the product catalog and consumable stock levels. Every
// quantity change goes through Move so the movement log stays complete.
type Service struct {
	products repository.ProductRepository
	stock    repository.StockRepository
	logger   *zap.Logger
}

func New(
	products repository.ProductRepository,
	stock repository.StockRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products: products,
		stock:    stock,
		logger:   logger,
	}
}

// ProductInput carries a new catalog entry.
type ProductInput struct {
	SKU          string             `json:"sku"`
	Name         string             `json:"name"`
	Kind         domain.ProductKind `json:"kind"`
	DefaultCost  float64            `json:"defaultCost"`
	ReorderLevel int                `json:"reorderLevel"`
	Category     string             `json:"category"`
	Description  string             `json:"description"`
}

// MoveInput is one stock movement request.
type MoveInput struct {
	Type     domain.MovementType `json:"type"`
	Quantity int                 `json:"quantity"`
	UnitCost *float64            `json:"unitCost"`
	Note     string              `json:"note"`
}

// CreateProduct adds a catalog entry. Consumables start with an empty stock
// row so listings and low-stock checks see them immediately.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	input.SKU = strings.TrimSpace(input.SKU)
	input.Name = strings.TrimSpace(input.Name)
	if input.SKU == "" || input.Name == "" {
		return nil, domain.NewError(domain.ErrCodeValidation, "sku and name are required")
	}
	if !input.Kind.Valid() {
		return nil, domain.NewError(domain.ErrCodeValidation, "kind must be ASSET or CONSUMABLE")
	}
	if input.DefaultCost < 0 || input.ReorderLevel < 0 {
		return nil, domain.NewError(domain.ErrCodeValidation, "defaultCost and reorderLevel must not be negative")
	}

	now := time.Now()
	product := &domain.Product{
		ID:           uuid.NewString(),
		SKU:          input.SKU,
		Name:         input.Name,
		Kind:         input.Kind,
		DefaultCost:  input.DefaultCost,
		ReorderLevel: input.ReorderLevel,
		Category:     strings.TrimSpace(input.Category),
		Description:  strings.TrimSpace(input.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	if created.Kind == domain.KindConsumable {
		seed := &domain.ConsumableStock{
			ID:        uuid.NewString(),
			ProductID: created.ID,
			Quantity:  0,
			UnitCost:  created.DefaultCost,
		}
		if err := s.stock.Upsert(ctx, seed); err != nil {
			return nil, err
		}
	}

	return created, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return s.products.List(ctx, filter)
}

func (s *Service) ListStock(ctx context.Context, filter repository.StockFilter) ([]domain.ConsumableStock, int, error) {
	return s.stock.List(ctx, filter)
}

func (s *Service) LowStock(ctx context.Context) ([]domain.ConsumableStock, error) {
	return s.stock.LowStock(ctx)
}

func (s *Service) ListMovements(ctx context.Context, productID string, limit, offset int) ([]domain.StockMovement, int, error) {
	return s.stock.ListMovements(ctx, productID, limit, offset)
}

// Move applies one stock movement. RECEIVE adds, ISSUE subtracts, ADJUST sets
// the absolute quantity. A movement that would leave the quantity negative is
// rejected without touching the stock row.
func (s *Service) Move(ctx context.Context, actorID, productID string, input MoveInput) (*domain.ConsumableStock, *domain.StockMovement, error) {
	if !input.Type.Valid() {
		return nil, nil, domain.NewError(domain.ErrCodeValidation, "type must be RECEIVE, ISSUE or ADJUST")
	}
	if input.Quantity < 0 {
		return nil, nil, domain.NewError(domain.ErrCodeValidation, "quantity must not be negative")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product.Kind != domain.KindConsumable {
		return nil, nil, domain.NewError(domain.ErrCodeValidation, "stock movements only apply to consumable products")
	}

	current, err := s.stock.GetByProduct(ctx, productID)
	if err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil, err
		}
		current = &domain.ConsumableStock{
			ID:        uuid.NewString(),
			ProductID: productID,
			UnitCost:  product.DefaultCost,
		}
	}

	previous := current.Quantity
	switch input.Type {
	case domain.MovementReceive:
		current.Quantity = previous + input.Quantity
	case domain.MovementIssue:
		if input.Quantity > previous {
			return nil, nil, domain.NewError(domain.ErrCodeValidation, "cannot issue more than the quantity on hand")
		}
		current.Quantity = previous - input.Quantity
	case domain.MovementAdjust:
		current.Quantity = input.Quantity
	}

	if input.UnitCost != nil {
		if *input.UnitCost < 0 {
			return nil, nil, domain.NewError(domain.ErrCodeValidation, "unitCost must not be negative")
		}
		current.UnitCost = *input.UnitCost
	}

	if err := s.stock.Upsert(ctx, current); err != nil {
		return nil, nil, err
	}

	movement := &domain.StockMovement{
		ID:               uuid.NewString(),
		ProductID:        productID,
		Type:             input.Type,
		Quantity:         input.Quantity,
		PreviousQuantity: previous,
		NewQuantity:      current.Quantity,
		Note:             strings.TrimSpace(input.Note),
		PerformedBy:      actorID,
		PerformedAt:      time.Now(),
	}
	if err := s.stock.AppendMovement(ctx, movement); err != nil {
		return nil, nil, domain.WrapError(domain.ErrCodeInternal, "failed to record stock movement", err)
	}

	current.Product = product
	if current.IsLow() {
		s.logger.Warn("stock at or below reorder level",
			zap.String("product_id", product.ID),
			zap.String("sku", product.SKU),
			zap.Int("quantity", current.Quantity),
			zap.Int("reorder_level", product.ReorderLevel))
	}

	return current, movement, nil
}
