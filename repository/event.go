package repository

import (
	"context"
	"time"

	"github.com/stockroom/backend/domain"
)

// EventFilter narrows audit event listings. Query matches the denormalized
// snapshot fields, not the live asset. From/To bound creation time inclusively.
type EventFilter struct {
	AssetID   string
	CreatedBy string
	Action    domain.EventAction
	Query     string
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

// EventRepository is append-only: events are never updated or deleted.
type EventRepository interface {
	Append(ctx context.Context, event *domain.AssetEvent) error
	GetByID(ctx context.Context, id string) (*domain.AssetEvent, error)
	List(ctx context.Context, filter EventFilter) ([]domain.AssetEvent, int, error)
}
