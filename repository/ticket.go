package repository

import (
	"context"

	"github.com/stockroom/backend/domain"
)

// TicketFilter narrows service ticket listings.
type TicketFilter struct {
	AssetID  string
	OpenOnly bool
	Limit    int
	Offset   int
}

type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.ServiceTicket, int, error)
	Create(ctx context.Context, ticket *domain.ServiceTicket) (*domain.ServiceTicket, error)
	Update(ctx context.Context, ticket *domain.ServiceTicket) error
}
