package ticket

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/repository"
)

// Service manages repair and maintenance tickets raised against assets.
type Service struct {
	tickets repository.TicketRepository
	assets  repository.AssetRepository
	logger  *zap.Logger
}

func New(
	tickets repository.TicketRepository,
	assets repository.AssetRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tickets: tickets,
		assets:  assets,
		logger:  logger,
	}
}

// OpenInput raises a new ticket.
type OpenInput struct {
	AssetID string `json:"assetId"`
	Issue   string `json:"issue"`
	Vendor  string `json:"vendor"`
}

// CloseInput resolves a ticket.
type CloseInput struct {
	Resolution string   `json:"resolution"`
	Cost       *float64 `json:"cost"`
}

// Open raises a ticket against an existing asset.
func (s *Service) Open(ctx context.Context, actorID string, input OpenInput) (*domain.ServiceTicket, error) {
	input.Issue = strings.TrimSpace(input.Issue)
	if input.AssetID == "" || input.Issue == "" {
		return nil, domain.NewError(domain.ErrCodeValidation, "assetId and issue are required")
	}

	if _, err := s.assets.GetByID(ctx, input.AssetID); err != nil {
		return nil, err
	}

	ticket := &domain.ServiceTicket{
		AssetID:  input.AssetID,
		Issue:    input.Issue,
		Vendor:   strings.TrimSpace(input.Vendor),
		OpenedBy: actorID,
		OpenedAt: time.Now(),
	}
	return s.tickets.Create(ctx, ticket)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	return s.tickets.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter repository.TicketFilter) ([]domain.ServiceTicket, int, error) {
	return s.tickets.List(ctx, filter)
}

// Close resolves a ticket. Closing an already-closed ticket is rejected so
// the close timestamp and resolution stay immutable once set.
func (s *Service) Close(ctx context.Context, id string, input CloseInput) (*domain.ServiceTicket, error) {
	existing, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.IsOpen() {
		return nil, domain.NewError(domain.ErrCodeValidation, "ticket is already closed")
	}
	if input.Cost != nil && *input.Cost < 0 {
		return nil, domain.NewError(domain.ErrCodeValidation, "cost must not be negative")
	}

	now := time.Now()
	existing.ClosedAt = &now
	existing.Resolution = strings.TrimSpace(input.Resolution)
	existing.Cost = input.Cost

	if err := s.tickets.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}
