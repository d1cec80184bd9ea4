package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart/internal/domain"
)

// Apply inserts demo catalog, inventory and shipping data for manual
// testing. Idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool, storeCode string) error {
	shoeID, err := upsertProduct(ctx, pool, storeCode, "SKU-RUNNER", "Trail Runner", "Lightweight trail shoe", 9900, "USD", 800, false)
	if err != nil {
		return fmt.Errorf("upsert shoe: %w", err)
	}

	sizeOptID, err := upsertOption(ctx, pool, shoeID, "SHOESIZE", true)
	if err != nil {
		return fmt.Errorf("upsert size option: %w", err)
	}
	if _, err := upsertOptionValue(ctx, pool, sizeOptID, "nine", 0, 0); err != nil {
		return err
	}
	tenID, err := upsertOptionValue(ctx, pool, sizeOptID, "ten", 2000, 50)
	if err != nil {
		return err
	}

	// Size ten also exists as a curated variant; it outranks the
	// synthetic base+delta computation during resolution.
	variantID, err := upsertVariant(ctx, pool, shoeID, "SKU-RUNNER-10", 11900, 850, []string{tenID})
	if err != nil {
		return fmt.Errorf("upsert variant: %w", err)
	}

	mugID, err := upsertProduct(ctx, pool, storeCode, "SKU-MUG", "Camp Mug", "Enamel camping mug", 1299, "USD", 300, false)
	if err != nil {
		return fmt.Errorf("upsert mug: %w", err)
	}

	stock := []domain.AvailabilityRecord{
		{UnitID: shoeID, StoreCode: storeCode, Region: domain.RegionAll, QuantityOnHand: 40},
		{UnitID: variantID, StoreCode: storeCode, Region: domain.RegionAll, QuantityOnHand: 12},
		{UnitID: variantID, StoreCode: storeCode, Region: "CA", QuantityOnHand: 0},
		{UnitID: mugID, StoreCode: storeCode, Region: domain.RegionAll, QuantityOnHand: 0, AllowBackorder: true},
	}
	for _, rec := range stock {
		if err := upsertAvailability(ctx, pool, rec); err != nil {
			return fmt.Errorf("upsert availability %s/%s: %w", rec.UnitID, rec.Region, err)
		}
	}

	regions := []domain.CustomShippingRegion{
		{
			StoreCode: storeCode,
			Name:      "NorthAmerica",
			Countries: []string{"US", "CA"},
			Brackets: []domain.WeightPriceItem{
				{MaxWeightGrams: 5000, PriceCents: 1000},
				{MaxWeightGrams: 20000, PriceCents: 2500},
			},
			Position: 0,
		},
		{
			StoreCode: storeCode,
			Name:      "Europe",
			Countries: []string{"DE", "FR", "NL"},
			Brackets: []domain.WeightPriceItem{
				{MaxWeightGrams: 5000, PriceCents: 1800},
				{MaxWeightGrams: 20000, PriceCents: 3600},
			},
			Position: 1,
		},
	}
	for _, region := range regions {
		if err := upsertRegion(ctx, pool, region); err != nil {
			return fmt.Errorf("upsert region %s: %w", region.Name, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, storeCode, sku, name, desc string, priceCents int64, currency string, weightGrams int64, variantsRequired bool) (string, error) {
	const q = `
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
`
	var id string
	err := pool.QueryRow(ctx, q, storeCode, sku, name, desc, priceCents, currency, weightGrams, variantsRequired).Scan(&id)
	return id, err
}

func upsertOption(ctx context.Context, pool *pgxpool.Pool, productID, code string, required bool) (string, error) {
	const q = `
INSERT INTO product_options (product_id, code, required)
VALUES ($1, $2, $3)
ON CONFLICT (product_id, code) DO UPDATE SET required = EXCLUDED.required
RETURNING id::text
`
	var id string
	err := pool.QueryRow(ctx, q, productID, code, required).Scan(&id)
	return id, err
}

func upsertOptionValue(ctx context.Context, pool *pgxpool.Pool, optionID, valueCode string, priceDelta, weightDelta int64) (string, error) {
	const q = `
INSERT INTO option_values (option_id, value_code, price_delta_cents, weight_delta_grams)
VALUES ($1, $2, $3, $4)
ON CONFLICT (option_id, value_code) DO UPDATE SET
	price_delta_cents = EXCLUDED.price_delta_cents,
	weight_delta_grams = EXCLUDED.weight_delta_grams
RETURNING id::text
`
	var id string
	err := pool.QueryRow(ctx, q, optionID, valueCode, priceDelta, weightDelta).Scan(&id)
	return id, err
}

func upsertVariant(ctx context.Context, pool *pgxpool.Pool, productID, sku string, priceCents, weightGrams int64, optionValueIDs []string) (string, error) {
	const q = `
INSERT INTO product_variants (product_id, sku, price_cents, weight_grams)
VALUES ($1, $2, $3, $4)
ON CONFLICT (product_id, sku) DO UPDATE SET
	price_cents = EXCLUDED.price_cents,
	weight_grams = EXCLUDED.weight_grams
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, productID, sku, priceCents, weightGrams).Scan(&id); err != nil {
		return "", err
	}
	for _, valueID := range optionValueIDs {
		if _, err := pool.Exec(ctx, `
INSERT INTO variant_option_values (variant_id, option_value_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, id, valueID); err != nil {
			return "", err
		}
	}
	return id, nil
}

func upsertAvailability(ctx context.Context, pool *pgxpool.Pool, rec domain.AvailabilityRecord) error {
	const q = `
INSERT INTO availability (unit_id, store_code, region, quantity_on_hand, allow_backorder)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (unit_id, store_code, region) DO UPDATE SET
	quantity_on_hand = EXCLUDED.quantity_on_hand,
	allow_backorder = EXCLUDED.allow_backorder
`
	_, err := pool.Exec(ctx, q, rec.UnitID, rec.StoreCode, rec.Region, rec.QuantityOnHand, rec.AllowBackorder)
	return err
}

func upsertRegion(ctx context.Context, pool *pgxpool.Pool, region domain.CustomShippingRegion) error {
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
	_, err = pool.Exec(ctx, q, region.StoreCode, region.Name, region.Countries, brackets, region.Position)
	return err
}
