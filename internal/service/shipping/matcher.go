// Package shipping matches a destination and cart weight against a
// merchant's custom shipping regions.
package shipping

import (
	"sort"

	"shopcart/internal/domain"
)

// Match picks the region whose country set contains the destination.
// Merchant configurations are expected to have at most one region per
// country, but overlap is not forbidden; when it happens the first
// region in declaration order wins. Within the region the first bracket
// whose max weight covers the cart's total weight gives the price. A
// weight heavier than every bracket is a merchant configuration error
// and yields ErrNoRegionMatched rather than an extrapolated price.
func Match(destinationCountry string, totalWeightGrams int64, regions []domain.CustomShippingRegion) (domain.ShippingQuote, error) {
	for _, region := range regions {
		if !region.Covers(destinationCountry) {
			continue
		}
		brackets := append([]domain.WeightPriceItem(nil), region.Brackets...)
		sort.Slice(brackets, func(i, j int) bool {
			return brackets[i].MaxWeightGrams < brackets[j].MaxWeightGrams
		})
		for _, b := range brackets {
			if b.MaxWeightGrams >= totalWeightGrams {
				return domain.ShippingQuote{
					RegionName: region.Name,
					PriceCents: b.PriceCents,
				}, nil
			}
		}
		return domain.ShippingQuote{}, domain.ErrNoRegionMatched
	}
	return domain.ShippingQuote{}, domain.ErrNoRegionMatched
}
