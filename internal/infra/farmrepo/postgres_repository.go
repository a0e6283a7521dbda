package farmrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/farmsight/internal/domain/farm"
)

// PostgresRepository persists farms in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const farmColumns = `id, owner_id, name, min_lat, max_lat, min_lng, max_lng, start_date, end_date, created_at`

func (r *PostgresRepository) Create(ctx context.Context, f farm.Farm) (farm.Farm, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO farms (`+farmColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+farmColumns,
		f.ID, f.OwnerID, f.Name,
		f.Bounds.MinLat, f.Bounds.MaxLat, f.Bounds.MinLng, f.Bounds.MaxLng,
		f.StartDate, f.EndDate, f.CreatedAt,
	)
	return scanFarm(row)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]farm.Farm, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+farmColumns+`
		FROM farms
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []farm.Farm
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID int64, id string) (farm.Farm, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+farmColumns+`
		FROM farms
		WHERE owner_id = $1 AND id = $2
		LIMIT 1
	`, ownerID, id)
	if err != nil {
		return farm.Farm{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return farm.Farm{}, false, rows.Err()
	}
	f, err := scanFarm(rows)
	if err != nil {
		return farm.Farm{}, false, err
	}
	return f, true, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID int64, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM farms WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFarm(row rowScanner) (farm.Farm, error) {
	var (
		f                     farm.Farm
		start, end, createdAt time.Time
	)
	if err := row.Scan(
		&f.ID, &f.OwnerID, &f.Name,
		&f.Bounds.MinLat, &f.Bounds.MaxLat, &f.Bounds.MinLng, &f.Bounds.MaxLng,
		&start, &end, &createdAt,
	); err != nil {
		return farm.Farm{}, err
	}
	f.StartDate = start.UTC()
	f.EndDate = end.UTC()
	f.CreatedAt = createdAt.UTC()
	return f, nil
}

var _ farm.Repository = (*PostgresRepository)(nil)
