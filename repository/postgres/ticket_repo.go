package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/repository"
)

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository returns a Postgres-backed implementation of TicketRepository.
func NewTicketRepository(pool *pgxpool.Pool) repository.TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, asset_id, issue, vendor, opened_by, opened_at, closed_at, resolution, cost`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM service_tickets WHERE id = $1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.ServiceTicket, int, error) {
	const where = `
	WHERE ($1 = '' OR asset_id = $1)
	  AND (NOT $2 OR closed_at IS NULL)
	`
	const query = `
	SELECT ` + ticketColumns + `
	FROM service_tickets
	` + where + `
	ORDER BY opened_at DESC
	LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, filter.AssetID, filter.OpenOnly, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tickets []domain.ServiceTicket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM service_tickets `+where, filter.AssetID, filter.OpenOnly).Scan(&total); err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.ServiceTicket) (*domain.ServiceTicket, error) {
	if ticket == nil {
		return nil, domain.ErrInvalidPayload
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO service_tickets (id, asset_id, issue, vendor, opened_by, opened_at)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
	RETURNING opened_at
	`

	if err := r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.AssetID,
		ticket.Issue,
		ticket.Vendor,
		ticket.OpenedBy,
		nullTime(ticket.OpenedAt),
	).Scan(&ticket.OpenedAt); err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.ServiceTicket) error {
	if ticket == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE service_tickets
	SET closed_at = $2,
		resolution = $3,
		cost = $4
	WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, ticket.ID, ticket.ClosedAt, ticket.Resolution, ticket.Cost)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func scanTicket(row interface {
	Scan(dest ...interface{}) error
}) (*domain.ServiceTicket, error) {
	var ticket domain.ServiceTicket
	if err := row.Scan(
		&ticket.ID,
		&ticket.AssetID,
		&ticket.Issue,
		&ticket.Vendor,
		&ticket.OpenedBy,
		&ticket.OpenedAt,
		&ticket.ClosedAt,
		&ticket.Resolution,
		&ticket.Cost,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
