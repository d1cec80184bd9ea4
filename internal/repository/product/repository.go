package product

import (
	"context"

	"shopcart/internal/domain"
)

// Repository loads product aggregates: the base row plus option
// definitions, option values and variants, enough for a resolver to
// work from a single snapshot.
type Repository interface {
	ListByStore(ctx context.Context, storeCode string) ([]domain.Product, error)
	GetByID(ctx context.Context, storeCode, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, storeCode, sku string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
