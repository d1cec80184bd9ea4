package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartColumns = `id::text, store_code, customer_id::text, currency, destination_country, quantity, subtotal_cents, shipping_cents, shipping_status, total_cents, order_id::text, state, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (store_code, customer_id, currency, destination_country, quantity, subtotal_cents, shipping_cents, shipping_status, total_cents, state)
VALUES ($1, $2, $3, $4, 0, 0, 0, 'not_requested', 0, 'active')
RETURNING ` + cartColumns
	row := r.pool.QueryRow(ctx, q, in.StoreCode, in.CustomerID, in.Currency, in.DestinationCountry)
	return scanCart(row)
}

func (r *postgresRepo) GetByID(ctx context.Context, storeCode, id string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE store_code = $1 AND id = $2
`
	cart, err := scanCart(r.pool.QueryRow(ctx, q, storeCode, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) GetActiveByCustomer(ctx context.Context, storeCode, customerID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE store_code = $1 AND customer_id = $2 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`
	cart, err := scanCart(r.pool.QueryRow(ctx, q, storeCode, customerID))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) AddLine(ctx context.Context, line domain.CartLine) error {
	const q = `
INSERT INTO cart_lines (id, cart_id, product_id, sku, name, selected_option_value_ids, quantity, unit_price_cents, subtotal_cents, weight_grams)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := r.pool.Exec(ctx, q,
		line.ID, line.CartID, line.ProductID, line.SKU, line.Name,
		line.SelectedOptionValueIDs, line.Quantity,
		line.UnitPriceCents, line.SubtotalCents, line.WeightGrams,
	)
	return err
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error {
	const q = `
UPDATE cart_lines
SET quantity = $1
WHERE id = $2 AND cart_id = $3
`
	cmd, err := r.pool.Exec(ctx, q, quantity, lineID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID, lineID string) error {
	const q = `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`
	cmd, err := r.pool.Exec(ctx, q, lineID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetDestination(ctx context.Context, storeCode, cartID, countryCode string) error {
	const q = `
UPDATE carts
SET destination_country = $1
WHERE store_code = $2 AND id = $3
`
	cmd, err := r.pool.Exec(ctx, q, countryCode, storeCode, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SaveDerived(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, line := range cart.Lines {
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET sku = $1, name = $2, unit_price_cents = $3, subtotal_cents = $4, weight_grams = $5
WHERE id = $6 AND cart_id = $7
`, line.SKU, line.Name, line.UnitPriceCents, line.SubtotalCents, line.WeightGrams, line.ID, cart.ID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
UPDATE carts
SET quantity = $1, subtotal_cents = $2, shipping_cents = $3, shipping_status = $4, total_cents = $5
WHERE id = $6
`, cart.Quantity, cart.SubtotalCents, cart.ShippingCents, string(cart.ShippingStatus), cart.TotalCents, cart.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) loadLines(ctx context.Context, cart *domain.Cart) error {
	const q = `
SELECT id::text, cart_id::text, product_id::text, sku, COALESCE(name, ''), selected_option_value_ids, quantity, unit_price_cents, subtotal_cents, weight_grams, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, q, cart.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID, &line.CartID, &line.ProductID, &line.SKU, &line.Name,
			&line.SelectedOptionValueIDs, &line.Quantity,
			&line.UnitPriceCents, &line.SubtotalCents, &line.WeightGrams,
			&line.CreatedAt,
		); err != nil {
			return err
		}
		cart.Lines = append(cart.Lines, line)
	}
	return rows.Err()
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	var customerID, orderID *string
	var shippingStatus string
	err := row.Scan(
		&cart.ID,
		&cart.StoreCode,
		&customerID,
		&cart.Currency,
		&cart.DestinationCountry,
		&cart.Quantity,
		&cart.SubtotalCents,
		&cart.ShippingCents,
		&shippingStatus,
		&cart.TotalCents,
		&orderID,
		&cart.State,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cart.CustomerID = customerID
	cart.OrderID = orderID
	cart.ShippingStatus = domain.ShippingStatus(shippingStatus)
	cart.Recompute = domain.RecomputeClean
	return &cart, nil
}
