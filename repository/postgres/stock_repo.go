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

type stockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository returns a Postgres-backed implementation of StockRepository.
func NewStockRepository(pool *pgxpool.Pool) repository.StockRepository {
	return &stockRepository{pool: pool}
}

const stockColumns = `
	s.id, s.product_id, s.quantity, s.unit_cost, s.location,
	p.id, p.sku, p.name, p.kind, p.default_cost, p.reorder_level, p.category, p.description, p.created_at, p.updated_at
`

func (r *stockRepository) GetByProduct(ctx context.Context, productID string) (*domain.ConsumableStock, error) {
	query := `
	SELECT ` + stockColumns + `
	FROM consumable_stock s
	JOIN products p ON p.id = s.product_id
	WHERE s.product_id = $1
	`
	stock, err := scanStock(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStockNotFound
		}
		return nil, err
	}
	return stock, nil
}

func (r *stockRepository) List(ctx context.Context, filter repository.StockFilter) ([]domain.ConsumableStock, int, error) {
	const where = `WHERE ($1 = '' OR s.product_id = $1)`
	query := `
	SELECT ` + stockColumns + `
	FROM consumable_stock s
	JOIN products p ON p.id = s.product_id
	` + where + `
	ORDER BY p.name ASC
	LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, filter.ProductID, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var stocks []domain.ConsumableStock
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, 0, err
		}
		stocks = append(stocks, *stock)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM consumable_stock s `+where, filter.ProductID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return stocks, total, nil
}

func (r *stockRepository) Upsert(ctx context.Context, stock *domain.ConsumableStock) error {
	if stock == nil {
		return domain.ErrInvalidPayload
	}
	if stock.ID == "" {
		stock.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO consumable_stock (id, product_id, quantity, unit_cost, location)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (product_id) DO UPDATE
	SET quantity = EXCLUDED.quantity,
		unit_cost = EXCLUDED.unit_cost,
		location = EXCLUDED.location
	`

	_, err := r.pool.Exec(ctx, query,
		stock.ID,
		stock.ProductID,
		stock.Quantity,
		stock.UnitCost,
		stock.Location,
	)
	if err != nil && isForeignKeyViolation(err) {
		return domain.ErrProductNotFound
	}
	return err
}

func (r *stockRepository) LowStock(ctx context.Context) ([]domain.ConsumableStock, error) {
	query := `
	SELECT ` + stockColumns + `
	FROM consumable_stock s
	JOIN products p ON p.id = s.product_id
	WHERE s.quantity <= p.reorder_level
	ORDER BY s.quantity ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []domain.ConsumableStock
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, *stock)
	}
	return stocks, rows.Err()
}

func (r *stockRepository) AppendMovement(ctx context.Context, movement *domain.StockMovement) error {
	if movement == nil {
		return domain.ErrInvalidPayload
	}
	if movement.ID == "" {
		movement.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO stock_movements (id, product_id, type, quantity, previous_quantity, new_quantity, note, performed_by, performed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
	RETURNING performed_at
	`

	return r.pool.QueryRow(ctx, query,
		movement.ID,
		movement.ProductID,
		string(movement.Type),
		movement.Quantity,
		movement.PreviousQuantity,
		movement.NewQuantity,
		movement.Note,
		movement.PerformedBy,
		nullTime(movement.PerformedAt),
	).Scan(&movement.PerformedAt)
}

func (r *stockRepository) ListMovements(ctx context.Context, productID string, limit, offset int) ([]domain.StockMovement, int, error) {
	const query = `
	SELECT id, product_id, type, quantity, previous_quantity, new_quantity, note, performed_by, performed_at
	FROM stock_movements
	WHERE product_id = $1
	ORDER BY performed_at DESC
	LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, productID, clampLimit(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		var mType string
		if err := rows.Scan(
			&m.ID,
			&m.ProductID,
			&mType,
			&m.Quantity,
			&m.PreviousQuantity,
			&m.NewQuantity,
			&m.Note,
			&m.PerformedBy,
			&m.PerformedAt,
		); err != nil {
			return nil, 0, err
		}
		m.Type = domain.MovementType(mType)
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

func scanStock(row interface {
	Scan(dest ...interface{}) error
}) (*domain.ConsumableStock, error) {
	var stock domain.ConsumableStock
	var product domain.Product
	var kind string

	if err := row.Scan(
		&stock.ID,
		&stock.ProductID,
		&stock.Quantity,
		&stock.UnitCost,
		&stock.Location,
		&product.ID,
		&product.SKU,
		&product.Name,
		&kind,
		&product.DefaultCost,
		&product.ReorderLevel,
		&product.Category,
		&product.Description,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}

	product.Kind = domain.ProductKind(kind)
	stock.Product = &product
	return &stock, nil
}
