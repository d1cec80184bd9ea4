package shippingregion

import (
	"context"

	"shopcart/internal/domain"
)

// Repository reads merchant-defined shipping regions. ListByStore
// returns them in the merchant's declaration order, which doubles as
// the precedence order for overlapping country sets.
type Repository interface {
	ListByStore(ctx context.Context, storeCode string) ([]domain.CustomShippingRegion, error)
	Upsert(ctx context.Context, region domain.CustomShippingRegion) error
}
