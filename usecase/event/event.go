package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/repository"
)

// Service is the read side of the audit stream. Events are immutable, so the
// service only queries.
type Service struct {
	events repository.EventRepository
	logger *zap.Logger
}

func New(events repository.EventRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{events: events, logger: logger}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.AssetEvent, error) {
	return s.events.GetByID(ctx, id)
}

// List returns one page of events matching the filter, newest first. The
// snapshot columns on each event keep rows for deleted assets readable.
func (s *Service) List(ctx context.Context, filter repository.EventFilter) ([]domain.AssetEvent, int, error) {
	return s.events.List(ctx, filter)
}
