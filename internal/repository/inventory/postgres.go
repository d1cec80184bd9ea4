package inventory

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListForUnit(ctx context.Context, storeCode, unitID string) ([]domain.AvailabilityRecord, error) {
	const q = `
SELECT unit_id::text, store_code, region, quantity_on_hand, allow_backorder
FROM availability
WHERE store_code = $1 AND unit_id = $2
ORDER BY region
`
	rows, err := r.pool.Query(ctx, q, storeCode, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AvailabilityRecord
	for rows.Next() {
		var rec domain.AvailabilityRecord
		if err := rows.Scan(&rec.UnitID, &rec.StoreCode, &rec.Region, &rec.QuantityOnHand, &rec.AllowBackorder); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, rec domain.AvailabilityRecord) error {
	const q = `
INSERT INTO availability (unit_id, store_code, region, quantity_on_hand, allow_backorder)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (unit_id, store_code, region) DO UPDATE SET
	quantity_on_hand = EXCLUDED.quantity_on_hand,
	allow_backorder = EXCLUDED.allow_backorder
`
	_, err := r.pool.Exec(ctx, q, rec.UnitID, rec.StoreCode, rec.Region, rec.QuantityOnHand, rec.AllowBackorder)
	return err
}
