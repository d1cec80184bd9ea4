package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, store_code, sku, name, COALESCE(description, ''), price_cents, currency, weight_grams, variants_required, created_at`

func (r *postgresRepo) ListByStore(ctx context.Context, storeCode string) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE store_code = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, storeCode)
	if err != nil {
		r.logger.Printf("product repo: list store=%s error=%v", storeCode, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadAggregate(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, storeCode, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE store_code = $1 AND id = $2
`
	return r.getOne(ctx, q, storeCode, id)
}

func (r *postgresRepo) GetBySKU(ctx context.Context, storeCode, sku string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE store_code = $1 AND sku = $2
`
	return r.getOne(ctx, q, storeCode, sku)
}

func (r *postgresRepo) getOne(ctx context.Context, q string, args ...interface{}) (*domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}
	p, err := scanProduct(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()
	if err := r.loadAggregate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert writes the whole aggregate: base row, options, option values
// and variants. Variant option-value bindings may reference values by
// "CODE=valueCode" when the IDs are not known yet (the importer path)
// or by raw ID.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	if err := tx.QueryRow(ctx, `
INSERT INTO products (store_code, sku, name, description, price_cents, currency, weight_grams, variants_required)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (store_code, sku) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	price_cents = EXCLUDED.price_cents,
	currency = EXCLUDED.currency,
	weight_grams = EXCLUDED.weight_grams,
	variants_required = EXCLUDED.variants_required
RETURNING id::text
`,
		p.StoreCode, p.SKU, p.Name, p.Description,
		p.PriceCents, p.Currency, p.WeightGrams, p.VariantsRequired,
	).Scan(&id); err != nil {
		r.logger.Printf("product repo: upsert sku=%s error=%v", p.SKU, err)
		return nil, err
	}

	valueIDs := map[string]string{}
	for optPos, opt := range p.Options {
		var optID string
		if err := tx.QueryRow(ctx, `
INSERT INTO product_options (product_id, code, required, position)
VALUES ($1, $2, $3, $4)
ON CONFLICT (product_id, code) DO UPDATE SET
	required = EXCLUDED.required,
	position = EXCLUDED.position
RETURNING id::text
`, id, opt.Code, opt.Required, optPos).Scan(&optID); err != nil {
			return nil, err
		}
		for pos, val := range opt.Values {
			var valID string
			if err := tx.QueryRow(ctx, `
INSERT INTO option_values (option_id, value_code, price_delta_cents, weight_delta_grams, position)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (option_id, value_code) DO UPDATE SET
	price_delta_cents = EXCLUDED.price_delta_cents,
	weight_delta_grams = EXCLUDED.weight_delta_grams,
	position = EXCLUDED.position
RETURNING id::text
`, optID, val.ValueCode, val.PriceDeltaCents, val.WeightDeltaGrams, pos).Scan(&valID); err != nil {
				return nil, err
			}
			valueIDs[opt.Code+"="+val.ValueCode] = valID
		}
	}

	for _, v := range p.Variants {
		var variantID string
		if err := tx.QueryRow(ctx, `
INSERT INTO product_variants (product_id, sku, price_cents, weight_grams)
VALUES ($1, $2, $3, $4)
ON CONFLICT (product_id, sku) DO UPDATE SET
	price_cents = EXCLUDED.price_cents,
	weight_grams = EXCLUDED.weight_grams
RETURNING id::text
`, id, v.SKU, v.PriceCents, v.WeightGrams).Scan(&variantID); err != nil {
			return nil, err
		}
		for _, ref := range v.OptionValueIDs {
			valID := ref
			if mapped, ok := valueIDs[ref]; ok {
				valID = mapped
			}
			if _, err := tx.Exec(ctx, `
INSERT INTO variant_option_values (variant_id, option_value_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, variantID, valID); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, p.StoreCode, id)
}

func (r *postgresRepo) loadAggregate(ctx context.Context, p *domain.Product) error {
	if err := r.loadOptions(ctx, p); err != nil {
		return err
	}
	return r.loadVariants(ctx, p)
}

func (r *postgresRepo) loadOptions(ctx context.Context, p *domain.Product) error {
	const q = `
SELECT o.code, o.required, v.id::text, v.value_code, v.price_delta_cents, v.weight_delta_grams
FROM product_options o
JOIN option_values v ON v.option_id = o.id
WHERE o.product_id = $1
ORDER BY o.position, v.position
`
	rows, err := r.pool.Query(ctx, q, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	byCode := map[string]int{}
	for rows.Next() {
		var (
			code     string
			required bool
			val      domain.OptionValue
		)
		if err := rows.Scan(&code, &required, &val.ID, &val.ValueCode, &val.PriceDeltaCents, &val.WeightDeltaGrams); err != nil {
			return err
		}
		val.OptionCode = code
		idx, ok := byCode[code]
		if !ok {
			p.Options = append(p.Options, domain.ProductOption{Code: code, Required: required})
			idx = len(p.Options) - 1
			byCode[code] = idx
		}
		p.Options[idx].Values = append(p.Options[idx].Values, val)
	}
	return rows.Err()
}

func (r *postgresRepo) loadVariants(ctx context.Context, p *domain.Product) error {
	const q = `
SELECT v.id::text, v.sku, v.price_cents, v.weight_grams,
	COALESCE(array_agg(b.option_value_id::text) FILTER (WHERE b.option_value_id IS NOT NULL), '{}')
FROM product_variants v
LEFT JOIN variant_option_values b ON b.variant_id = v.id
WHERE v.product_id = $1
GROUP BY v.id, v.sku, v.price_cents, v.weight_grams
ORDER BY v.sku
`
	rows, err := r.pool.Query(ctx, q, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		v := domain.ProductVariant{ProductID: p.ID}
		if err := rows.Scan(&v.ID, &v.SKU, &v.PriceCents, &v.WeightGrams, &v.OptionValueIDs); err != nil {
			return err
		}
		p.Variants = append(p.Variants, v)
	}
	return rows.Err()
}

func scanProduct(rows pgx.Rows) (*domain.Product, error) {
	var p domain.Product
	if err := rows.Scan(
		&p.ID, &p.StoreCode, &p.SKU, &p.Name, &p.Description,
		&p.PriceCents, &p.Currency, &p.WeightGrams, &p.VariantsRequired,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
