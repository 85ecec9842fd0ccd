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

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation of ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, sku, name, kind, default_cost, reorder_level, category, description, created_at, updated_at`

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	const where = `
	WHERE ($1 = '' OR kind = $1)
	  AND ($2 = '' OR sku ILIKE '%' || $2 || '%' OR name ILIKE '%' || $2 || '%')
	`
	const query = `
	SELECT ` + productColumns + `
	FROM products
	` + where + `
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query,
		string(filter.Kind), filter.Query, clampLimit(filter.Limit), filter.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where,
		string(filter.Kind), filter.Query,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, domain.ErrInvalidPayload
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO products (id, sku, name, kind, default_cost, reorder_level, category, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		product.ID,
		product.SKU,
		product.Name,
		string(product.Kind),
		product.DefaultCost,
		product.ReorderLevel,
		product.Category,
		product.Description,
	).Scan(&product.CreatedAt, &product.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.WrapError(domain.ErrCodeConflict, "sku already in use", err)
		}
		return nil, err
	}

	return product, nil
}

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Product, error) {
	var product domain.Product
	var kind string

	if err := row.Scan(
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	product.Kind = domain.ProductKind(kind)
	return &product, nil
}
