package cart

import (
	"context"

	"shopcart/internal/domain"
)

type CreateCartInput struct {
	StoreCode          string
	CustomerID         *string
	Currency           string
	DestinationCountry string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, storeCode, id string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, storeCode, customerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, line domain.CartLine) error
	SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
	SetDestination(ctx context.Context, storeCode, cartID, countryCode string) error
	// SaveDerived persists the reconciled per-line prices and the
	// cart-level rollup.
	SaveDerived(ctx context.Context, cart *domain.Cart) error
}
