package domain

import "time"

// Product is a sellable catalog entry owned by a store. Options describe
// the choices a buyer can make; Variants are merchant-curated SKUs bound
// to one exact option-value combination.
type Product struct {
	ID          string `json:"id"`
	StoreCode   string `json:"-"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	Currency    string `json:"currency"`
	WeightGrams int64  `json:"weightGrams"`
	// VariantsRequired means the base product is not sellable by itself:
	// a selection must land on an explicit variant row.
	VariantsRequired bool             `json:"variantsRequired"`
	Options          []ProductOption  `json:"options,omitempty"`
	Variants         []ProductVariant `json:"variants,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// ProductOption is one axis of choice on a product, e.g. SHOESIZE.
type ProductOption struct {
	Code     string        `json:"code"`
	Required bool          `json:"required"`
	Values   []OptionValue `json:"values"`
}

// OptionValue is an (option-code, value-code) pair carrying price and
// weight deltas relative to the base product.
type OptionValue struct {
	ID               string `json:"id"`
	OptionCode       string `json:"optionCode"`
	ValueCode        string `json:"valueCode"`
	PriceDeltaCents  int64  `json:"priceDeltaCents"`
	WeightDeltaGrams int64  `json:"weightDeltaGrams"`
}

// ProductVariant is a concrete SKU bound to an exact option-value set.
// Price and weight are absolute, not deltas.
type ProductVariant struct {
	ID             string   `json:"id"`
	ProductID      string   `json:"productId"`
	SKU            string   `json:"sku"`
	OptionValueIDs []string `json:"optionValueIds"`
	PriceCents     int64    `json:"priceCents"`
	WeightGrams    int64    `json:"weightGrams"`
}

// ResolvedUnit is the concrete purchasable unit a cart line resolved to:
// either an explicit variant or the base product with attribute deltas
// applied.
type ResolvedUnit struct {
	UnitID       string        `json:"unitId"`
	ProductID    string        `json:"productId"`
	SKU          string        `json:"sku"`
	Name         string        `json:"name"`
	FromVariant  bool          `json:"fromVariant"`
	PriceCents   int64         `json:"priceCents"`
	WeightGrams  int64         `json:"weightGrams"`
	Currency     string        `json:"currency"`
	OptionValues []OptionValue `json:"optionValues,omitempty"`
}

// Option returns the option definition with the given code, if any.
func (p Product) Option(code string) (ProductOption, bool) {
	for _, opt := range p.Options {
		if opt.Code == code {
			return opt, true
		}
	}
	return ProductOption{}, false
}

// OptionValueByID looks up an option value across all of the product's options.
func (p Product) OptionValueByID(id string) (OptionValue, bool) {
	for _, opt := range p.Options {
		for _, v := range opt.Values {
			if v.ID == id {
				return v, true
			}
		}
	}
	return OptionValue{}, false
}
