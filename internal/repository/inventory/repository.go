package inventory

import (
	"context"

	"shopcart/internal/domain"
)

// Repository reads stock records. ListForUnit returns every record for
// the unit in the store, wildcard region included; the availability
// checker picks the most specific one.
type Repository interface {
	ListForUnit(ctx context.Context, storeCode, unitID string) ([]domain.AvailabilityRecord, error)
	Upsert(ctx context.Context, rec domain.AvailabilityRecord) error
}
