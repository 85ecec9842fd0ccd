package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/repository"
)

type fakeProductRepo struct {
	products map[string]domain.Product
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copy := p
	return &copy, nil
}

func (r *fakeProductRepo) List(context.Context, repository.ProductFilter) ([]domain.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return nil, domain.NewError(domain.ErrCodeConflict, "sku already in use")
		}
	}
	r.products[p.ID] = *p
	return p, nil
}

type fakeStockRepo struct {
	byProduct map[string]domain.ConsumableStock
	movements []domain.StockMovement
}

func (r *fakeStockRepo) GetByProduct(_ context.Context, productID string) (*domain.ConsumableStock, error) {
	s, ok := r.byProduct[productID]
	if !ok {
		return nil, domain.ErrStockNotFound
	}
	copy := s
	return &copy, nil
}

func (r *fakeStockRepo) List(context.Context, repository.StockFilter) ([]domain.ConsumableStock, int, error) {
	return nil, 0, nil
}

func (r *fakeStockRepo) Upsert(_ context.Context, s *domain.ConsumableStock) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	stored := *s
	stored.Product = nil
	r.byProduct[s.ProductID] = stored
	return nil
}

func (r *fakeStockRepo) LowStock(context.Context) ([]domain.ConsumableStock, error) {
	return nil, nil
}

func (r *fakeStockRepo) AppendMovement(_ context.Context, m *domain.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeStockRepo) ListMovements(context.Context, string, int, int) ([]domain.StockMovement, int, error) {
	return r.movements, len(r.movements), nil
}

type fixture struct {
	svc      *Service
	products *fakeProductRepo
	stock    *fakeStockRepo
}

func newFixture() *fixture {
	products := &fakeProductRepo{products: make(map[string]domain.Product)}
	stock := &fakeStockRepo{byProduct: make(map[string]domain.ConsumableStock)}
	return &fixture{
		svc:      New(products, stock, nil),
		products: products,
		stock:    stock,
	}
}

const actor = "admin-1"

func (f *fixture) consumable(t *testing.T, sku string, reorder int) *domain.Product {
	t.Helper()
	p, err := f.svc.CreateProduct(context.Background(), ProductInput{
		SKU: sku, Name: "Toner " + sku, Kind: domain.KindConsumable, ReorderLevel: reorder,
	})
	require.NoError(t, err)
	return p
}

func TestCreateConsumableSeedsEmptyStock(t *testing.T) {
	f := newFixture()
	p := f.consumable(t, "TNR-1", 5)

	stock, err := f.stock.GetByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	require.Zero(t, stock.Quantity)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name  string
		input ProductInput
	}{
		{"empty sku", ProductInput{Name: "Toner", Kind: domain.KindConsumable}},
		{"empty name", ProductInput{SKU: "TNR-1", Kind: domain.KindConsumable}},
		{"bad kind", ProductInput{SKU: "TNR-1", Name: "Toner", Kind: "SERVICE"}},
		{"negative reorder", ProductInput{SKU: "TNR-1", Name: "Toner", Kind: domain.KindConsumable, ReorderLevel: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateProduct(context.Background(), tt.input)
			require.True(t, domain.IsDomainError(err, domain.ErrCodeValidation), "got %v", err)
		})
	}
}

func TestMoveReceiveIssueAdjust(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.consumable(t, "TNR-2", 5)

	stock, movement, err := f.svc.Move(ctx, actor, p.ID, MoveInput{Type: domain.MovementReceive, Quantity: 20})
	require.NoError(t, err)
	require.Equal(t, 20, stock.Quantity)
	require.Equal(t, 0, movement.PreviousQuantity)
	require.Equal(t, 20, movement.NewQuantity)

	stock, movement, err = f.svc.Move(ctx, actor, p.ID, MoveInput{Type: domain.MovementIssue, Quantity: 8})
	require.NoError(t, err)
	require.Equal(t, 12, stock.Quantity)
	require.Equal(t, 20, movement.PreviousQuantity)

	stock, movement, err = f.svc.Move(ctx, actor, p.ID, MoveInput{Type: domain.MovementAdjust, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, 3, stock.Quantity)
	require.Equal(t, 12, movement.PreviousQuantity)
	require.Equal(t, 3, movement.NewQuantity)

	require.Len(t, f.stock.movements, 3)
}

func TestMoveIssueBeyondOnHand(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.consumable(t, "TNR-3", 5)

	_, _, err := f.svc.Move(ctx, actor, p.ID, MoveInput{Type: domain.MovementReceive, Quantity: 4})
	require.NoError(t, err)

	_, _, err = f.svc.Move(ctx, actor, p.ID, MoveInput{Type: domain.MovementIssue, Quantity: 5})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeValidation), "got %v", err)

	// stock untouched, nothing logged
	stock, err := f.stock.GetByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 4, stock.Quantity)
	require.Len(t, f.stock.movements, 1)
}

func TestMoveRejectsAssetKind(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.CreateProduct(ctx, ProductInput{
		SKU: "LPT-1", Name: "Laptop", Kind: domain.KindAsset,
	})
	require.NoError(t, err)

	_, _, err = f.svc.Move(ctx, actor, p.ID, MoveInput{Type: domain.MovementReceive, Quantity: 1})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeValidation), "got %v", err)
}

func TestMoveUnknownProduct(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.Move(context.Background(), actor, "missing", MoveInput{Type: domain.MovementReceive, Quantity: 1})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound), "got %v", err)
}

func TestMoveRecordsActor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.consumable(t, "TNR-4", 5)

	_, movement, err := f.svc.Move(ctx, actor, p.ID, MoveInput{Type: domain.MovementReceive, Quantity: 2, Note: "initial delivery"})
	require.NoError(t, err)
	require.Equal(t, actor, movement.PerformedBy)
	require.Equal(t, "initial delivery", movement.Note)
	require.False(t, movement.PerformedAt.IsZero())
}
