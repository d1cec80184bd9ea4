package domain

// CustomShippingRegion is a merchant-defined grouping of destination
// countries with weight-tiered prices. Position is the declaration
// order in the merchant's configuration; when two regions cover the
// same country, the lower position wins.
type CustomShippingRegion struct {
	ID        string            `json:"id"`
	StoreCode string            `json:"-"`
	Name      string            `json:"name"`
	Countries []string          `json:"countries"`
	Brackets  []WeightPriceItem `json:"brackets"`
	Position  int               `json:"position"`
}

// WeightPriceItem is one weight tier: the price applies up to and
// including MaxWeightGrams. Brackets are kept sorted ascending.
type WeightPriceItem struct {
	MaxWeightGrams int64 `json:"maxWeightGrams"`
	PriceCents     int64 `json:"priceCents"`
}

// ShippingQuote is a matched region's contribution to the cart total.
type ShippingQuote struct {
	RegionName string `json:"regionName"`
	PriceCents int64  `json:"priceCents"`
}

// Covers reports whether the region's country set contains the code.
func (r CustomShippingRegion) Covers(countryCode string) bool {
	for _, c := range r.Countries {
		if c == countryCode {
			return true
		}
	}
	return false
}
