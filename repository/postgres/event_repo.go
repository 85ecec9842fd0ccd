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

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository returns a Postgres-backed implementation of EventRepository.
// The asset_events table is append-only; no update or delete statements exist.
func NewEventRepository(pool *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `
	e.id, e.asset_id, e.asset_tag, e.asset_name, e.asset_type, e.asset_status,
	e.action, e.created_by, e.meta, e.created_at,
	u.id, u.email, u.name
`

func (r *eventRepository) Append(ctx context.Context, event *domain.AssetEvent) error {
	if event == nil {
		return domain.ErrInvalidPayload
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO asset_events (id, asset_id, asset_tag, asset_name, asset_type, asset_status, action, created_by, meta, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()))
	RETURNING created_at
	`

	var meta interface{}
	if len(event.Meta) > 0 {
		meta = []byte(event.Meta)
	}

	return r.pool.QueryRow(ctx, query,
		event.ID,
		event.AssetID,
		event.AssetTag,
		event.AssetName,
		event.AssetType,
		string(event.AssetStatus),
		string(event.Action),
		event.CreatedBy,
		meta,
		nullTime(event.CreatedAt),
	).Scan(&event.CreatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.AssetEvent, error) {
	query := `
	SELECT ` + eventColumns + `
	FROM asset_events e
	LEFT JOIN users u ON u.id = e.created_by
	WHERE e.id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) List(ctx context.Context, filter repository.EventFilter) ([]domain.AssetEvent, int, error) {
	const where = `
	WHERE ($1 = '' OR e.asset_id = $1)
	  AND ($2 = '' OR e.created_by = $2)
	  AND ($3 = '' OR e.action = $3)
	  AND ($4 = '' OR e.asset_tag ILIKE '%' || $4 || '%'
	               OR e.asset_name ILIKE '%' || $4 || '%'
	               OR e.asset_type ILIKE '%' || $4 || '%')
	  AND ($5::timestamptz IS NULL OR e.created_at >= $5)
	  AND ($6::timestamptz IS NULL OR e.created_at <= $6)
	`
	query := `
	SELECT ` + eventColumns + `
	FROM asset_events e
	LEFT JOIN users u ON u.id = e.created_by
	` + where + `
	ORDER BY e.created_at DESC
	LIMIT $7 OFFSET $8
	`

	args := []interface{}{
		filter.AssetID, filter.CreatedBy, string(filter.Action), filter.Query,
		nullTime(filter.From), nullTime(filter.To),
	}

	rows, err := r.pool.Query(ctx, query, append(args, clampLimit(filter.Limit), filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []domain.AssetEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM asset_events e ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func scanEvent(row interface {
	Scan(dest ...interface{}) error
}) (*domain.AssetEvent, error) {
	var event domain.AssetEvent
	var (
		status     string
		action     string
		meta       []byte
		actorID    *string
		actorEmail *string
		actorName  *string
	)

	if err := row.Scan(
		&event.ID,
		&event.AssetID,
		&event.AssetTag,
		&event.AssetName,
		&event.AssetType,
		&status,
		&action,
		&event.CreatedBy,
		&meta,
		&event.CreatedAt,
		&actorID,
		&actorEmail,
		&actorName,
	); err != nil {
		return nil, err
	}

	event.AssetStatus = domain.AssetStatus(status)
	event.Action = domain.EventAction(action)
	if len(meta) > 0 {
		event.Meta = append([]byte(nil), meta...)
	}
	if actorID != nil && actorEmail != nil {
		event.Actor = &domain.UserRef{ID: *actorID, Email: *actorEmail, Name: actorName}
	}

	return &event, nil
}
