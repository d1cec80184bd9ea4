package domain

import "time"

// RecomputeState tracks whether a cart's derived totals are current:
// clean when loaded from storage, dirty after a mutation, reconciled
// once totals are recomputed but not yet persisted and reloaded.
type RecomputeState string

const (
	RecomputeClean      RecomputeState = "clean"
	RecomputeDirty      RecomputeState = "dirty"
	RecomputeReconciled RecomputeState = "reconciled"
)

// ShippingStatus distinguishes "no quote requested", "quoted" and
// "no region covers this destination/weight". The last one is never
// collapsed into a zero-cost quote.
type ShippingStatus string

const (
	ShippingNotRequested ShippingStatus = "not_requested"
	ShippingQuoted       ShippingStatus = "quoted"
	ShippingUnavailable  ShippingStatus = "unavailable"
)

type Cart struct {
	ID                 string     `json:"id"`
	StoreCode          string     `json:"-"`
	CustomerID         *string    `json:"customerId,omitempty"`
	Currency           string     `json:"currency"`
	DestinationCountry string     `json:"destinationCountry,omitempty"`
	Lines              []CartLine `json:"lineItems,omitempty"`
	// Unavailable is derived during reconciliation and never persisted;
	// it holds lines whose product vanished, whose selection no longer
	// resolves, or which went out of stock, kept so the user can be told.
	Unavailable    []UnavailableLine `json:"unavailableItems,omitempty"`
	Quantity       int               `json:"quantity"`
	SubtotalCents  int64             `json:"subtotalCents"`
	ShippingCents  int64             `json:"shippingCents"`
	ShippingStatus ShippingStatus    `json:"shippingStatus"`
	TotalCents     int64             `json:"totalCents"`
	OrderID        *string           `json:"orderId,omitempty"`
	State          string            `json:"state"`
	Recompute      RecomputeState    `json:"-"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// CartLine is one product + selected option values + quantity.
// UnitPriceCents, SubtotalCents and WeightGrams are derived during
// reconciliation, never set by callers.
type CartLine struct {
	ID                     string    `json:"id"`
	CartID                 string    `json:"cartId"`
	ProductID              string    `json:"productId"`
	SKU                    string    `json:"sku"`
	Name                   string    `json:"name,omitempty"`
	SelectedOptionValueIDs []string  `json:"selectedOptionValueIds,omitempty"`
	Quantity               int       `json:"quantity"`
	UnitPriceCents         int64     `json:"unitPriceCents"`
	SubtotalCents          int64     `json:"subtotalCents"`
	WeightGrams            int64     `json:"weightGrams"`
	CreatedAt              time.Time `json:"createdAt"`
}

// UnavailableLine preserves a failed line's original selection so the
// user can correct or re-add it, together with the reason it fell out.
type UnavailableLine struct {
	Line   CartLine `json:"line"`
	Reason string   `json:"reason"`
}

// NormalizeQuantity maps non-positive quantities to 1. The legacy
// storefront treated 0 and negative quantities as "one of", and carts
// migrated from it depend on that; the normalization is applied once at
// construction or mutation time, never silently on read.
func NormalizeQuantity(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

// MarkDirty records that a mutation invalidated derived totals.
func (c *Cart) MarkDirty() {
	c.Recompute = RecomputeDirty
}

// AddLine appends a line in insertion order and marks the cart dirty.
func (c *Cart) AddLine(line CartLine) {
	line.Quantity = NormalizeQuantity(line.Quantity)
	c.Lines = append(c.Lines, line)
	c.MarkDirty()
}

// SetLineQuantity changes a line's quantity, normalizing non-positive
// values. Returns false when the line is not in the cart.
func (c *Cart) SetLineQuantity(lineID string, quantity int) bool {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines[i].Quantity = NormalizeQuantity(quantity)
			c.MarkDirty()
			return true
		}
	}
	return false
}

// RemoveLine drops a line from the cart. Returns false when absent.
func (c *Cart) RemoveLine(lineID string) bool {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.MarkDirty()
			return true
		}
	}
	return false
}

// SetDestination changes the shipping destination country.
func (c *Cart) SetDestination(countryCode string) {
	c.DestinationCountry = countryCode
	c.MarkDirty()
}
