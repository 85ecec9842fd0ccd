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

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository returns a Postgres-backed implementation of AssetRepository.
func NewAssetRepository(pool *pgxpool.Pool) repository.AssetRepository {
	return &assetRepository{pool: pool}
}

const assetColumns = `
	a.id, a.tag, a.name, a.type, a.status, a.purchase_cost, a.owner_id,
	a.location, a.notes, a.created_at, a.updated_at,
	u.id, u.email, u.name
`

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := `
	SELECT ` + assetColumns + `
	FROM assets a
	LEFT JOIN users u ON u.id = a.owner_id
	WHERE a.id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanAsset(row)
}

func (r *assetRepository) List(ctx context.Context, filter repository.AssetFilter) ([]domain.Asset, int, error) {
	const where = `
	WHERE ($1 = '' OR a.status = $1)
	  AND ($2 = '' OR a.owner_id = $2)
	  AND ($3 = '' OR a.tag ILIKE '%' || $3 || '%'
	               OR a.name ILIKE '%' || $3 || '%'
	               OR a.type ILIKE '%' || $3 || '%')
	`
	query := `
	SELECT ` + assetColumns + `
	FROM assets a
	LEFT JOIN users u ON u.id = a.owner_id
	` + where + `
	ORDER BY a.created_at DESC
	LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query,
		string(filter.Status), filter.OwnerID, filter.Query,
		clampLimit(filter.Limit), filter.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM assets a ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery,
		string(filter.Status), filter.OwnerID, filter.Query,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return assets, total, nil
}

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	if asset == nil {
		return nil, domain.ErrInvalidPayload
	}
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO assets (id, tag, name, type, status, purchase_cost, owner_id, location, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		asset.ID,
		asset.Tag,
		asset.Name,
		asset.Type,
		string(asset.Status),
		asset.PurchaseCost,
		asset.OwnerID,
		asset.Location,
		asset.Notes,
	).Scan(&asset.CreatedAt, &asset.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.WrapError(domain.ErrCodeConflict, "asset tag already in use", err)
		}
		if isForeignKeyViolation(err) {
			return nil, domain.WrapError(domain.ErrCodeInvalidOwner, "ownerId does not reference an existing user", err)
		}
		return nil, err
	}

	return asset, nil
}

func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	if asset == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE assets
	SET tag = $2,
		name = $3,
		type = $4,
		status = $5,
		purchase_cost = $6,
		owner_id = $7,
		location = $8,
		notes = $9,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		asset.ID,
		asset.Tag,
		asset.Name,
		asset.Type,
		string(asset.Status),
		asset.PurchaseCost,
		asset.OwnerID,
		asset.Location,
		asset.Notes,
	).Scan(&asset.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAssetNotFound
		}
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrCodeConflict, "asset tag already in use", err)
		}
		if isForeignKeyViolation(err) {
			return domain.WrapError(domain.ErrCodeInvalidOwner, "ownerId does not reference an existing user", err)
		}
		return err
	}

	return nil
}

func (r *assetRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM assets WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

func (r *assetRepository) StatusCounts(ctx context.Context) (map[domain.AssetStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM assets GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.AssetStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.AssetStatus(status)] = count
	}
	return counts, rows.Err()
}

func (r *assetRepository) CostByStatus(ctx context.Context) (map[domain.AssetStatus]float64, error) {
	const query = `SELECT status, COALESCE(SUM(purchase_cost), 0) FROM assets GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[domain.AssetStatus]float64)
	for rows.Next() {
		var status string
		var sum float64
		if err := rows.Scan(&status, &sum); err != nil {
			return nil, err
		}
		sums[domain.AssetStatus(status)] = sum
	}
	return sums, rows.Err()
}

func scanAsset(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Asset, error) {
	var asset domain.Asset
	var (
		status     string
		ownerID    *string
		ownerEmail *string
		ownerName  *string
	)

	if err := row.Scan(
		&asset.ID,
		&asset.Tag,
		&asset.Name,
		&asset.Type,
		&status,
		&asset.PurchaseCost,
		&asset.OwnerID,
		&asset.Location,
		&asset.Notes,
		&asset.CreatedAt,
		&asset.UpdatedAt,
		&ownerID,
		&ownerEmail,
		&ownerName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}

	asset.Status = domain.AssetStatus(status)
	if ownerID != nil && ownerEmail != nil {
		asset.Owner = &domain.UserRef{ID: *ownerID, Email: *ownerEmail, Name: ownerName}
	}

	return &asset, nil
}
