// Package availability decides whether a resolved unit is purchasable
// in a store/region context from a snapshot of stock records.
package availability

import "shopcart/internal/domain"

// Check picks the most specific record for the region (exact region
// beats the "*" wildcard) and classifies the unit. No record at all
// means the unit was discontinued, which is distinct from out of stock
// because it can never come back. The snapshot may be stale relative to
// true stock; that is accepted, not masked.
func Check(unit domain.ResolvedUnit, region string, records []domain.AvailabilityRecord) domain.Availability {
	var (
		match *domain.AvailabilityRecord
		exact bool
	)
	for i := range records {
		rec := records[i]
		if rec.UnitID != unit.UnitID {
			continue
		}
		switch rec.Region {
		case region:
			match = &records[i]
			exact = true
		case domain.RegionAll:
			if !exact {
				match = &records[i]
			}
		}
		if exact {
			break
		}
	}

	if match == nil {
		return domain.Availability{Status: domain.StatusDiscontinued}
	}
	if match.QuantityOnHand <= 0 && !match.AllowBackorder {
		return domain.Availability{Status: domain.StatusOutOfStock}
	}
	return domain.Availability{
		Status:         domain.StatusAvailable,
		QuantityOnHand: match.QuantityOnHand,
	}
}
