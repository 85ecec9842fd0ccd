package repository

import (
	"context"

	"github.com/stockroom/backend/domain"
)

// ProductFilter narrows catalog listings. Query matches sku or name.
type ProductFilter struct {
	Kind   domain.ProductKind
	Query  string
	Limit  int
	Offset int
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
}

// StockFilter narrows consumable stock listings.
type StockFilter struct {
	ProductID string
	Limit     int
	Offset    int
}

type StockRepository interface {
	// GetByProduct returns the stock row for a product with the product embedded.
	GetByProduct(ctx context.Context, productID string) (*domain.ConsumableStock, error)
	List(ctx context.Context, filter StockFilter) ([]domain.ConsumableStock, int, error)
	// Upsert creates or replaces the stock row for its product.
	Upsert(ctx context.Context, stock *domain.ConsumableStock) error
	// LowStock returns every stock row at or below its product's reorder level.
	LowStock(ctx context.Context) ([]domain.ConsumableStock, error)
	AppendMovement(ctx context.Context, movement *domain.StockMovement) error
	ListMovements(ctx context.Context, productID string, limit, offset int) ([]domain.StockMovement, int, error)
}
