package shippingregion

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByStore(ctx context.Context, storeCode string) ([]domain.CustomShippingRegion, error) {
	const q = `
SELECT id::text, store_code, name, countries, brackets, position
FROM shipping_regions
WHERE store_code = $1
ORDER BY position
`
	rows, err := r.pool.Query(ctx, q, storeCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []domain.CustomShippingRegion
	for rows.Next() {
		var (
			region   domain.CustomShippingRegion
			brackets []byte
		)
		if err := rows.Scan(&region.ID, &region.StoreCode, &region.Name, &region.Countries, &brackets, &region.Position); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(brackets, &region.Brackets); err != nil {
			return nil, err
		}
		// Brackets are stored in merchant order but matched ascending.
		sort.Slice(region.Brackets, func(i, j int) bool {
			return region.Brackets[i].MaxWeightGrams < region.Brackets[j].MaxWeightGrams
		})
		regions = append(regions, region)
	}
	return regions, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, region domain.CustomShippingRegion) error {
	brackets, err := json.Marshal(region.Brackets)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO shipping_regions (store_code, name, countries, brackets, position)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (store_code, name) DO UPDATE SET
	countries = EXCLUDED.countries,
	brackets = EXCLUDED.brackets,
	position = EXCLUDED.position
`
	_, err = r.pool.Exec(ctx, q, region.StoreCode, region.Name, region.Countries, brackets, region.Position)
	return err
}
