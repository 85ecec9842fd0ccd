package repository

import (
	"context"

	"github.com/stockroom/backend/domain"
)

// AssetFilter narrows asset listings. Query is a case-insensitive substring
// OR-match over tag, name and type; Status and OwnerID are exact matches
// AND-combined with it.
type AssetFilter struct {
	Status  domain.AssetStatus
	OwnerID string
	Query   string
	Limit   int
	Offset  int
}

type AssetRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	// List returns one page ordered by creation time descending, plus the
	// total count matching the filter.
	List(ctx context.Context, filter AssetFilter) ([]domain.Asset, int, error)
	Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, id string) error
	// StatusCounts returns asset counts grouped by status. Statuses with no
	// assets are absent; callers fill in zeroes.
	StatusCounts(ctx context.Context) (map[domain.AssetStatus]int, error)
	// CostByStatus returns summed purchase cost grouped by status.
	CostByStatus(ctx context.Context) (map[domain.AssetStatus]float64, error)
}
