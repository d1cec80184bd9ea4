// Package pricing computes line subtotals and cart totals. All amounts
// are integer cents of the cart currency, so multiplication and
// summation are exact; there is no floating point anywhere in the money
// path.
package pricing

import "shopcart/internal/domain"

// TaxFunc is a pluggable adjustment supplied by an external tax
// collaborator. It maps a cart subtotal to a tax amount.
type TaxFunc func(subtotalCents int64) int64

// NoTax is the default adjustment when no tax collaborator is wired.
func NoTax(int64) int64 { return 0 }

// LineSubtotal is the resolved unit price times the quantity.
func LineSubtotal(unit domain.ResolvedUnit, quantity int) int64 {
	return unit.PriceCents * int64(quantity)
}

// Totals is the cart-level money rollup.
type Totals struct {
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
}

// CartTotal sums line subtotals and adds the shipping contribution and
// the tax adjustment. An empty cart yields subtotal 0 and total equal
// to the shipping contribution; no special case.
func CartTotal(lineSubtotals []int64, shippingCents int64, tax TaxFunc) Totals {
	if tax == nil {
		tax = NoTax
	}
	var subtotal int64
	for _, s := range lineSubtotals {
		subtotal += s
	}
	taxCents := tax(subtotal)
	return Totals{
		SubtotalCents: subtotal,
		ShippingCents: shippingCents,
		TaxCents:      taxCents,
		TotalCents:    subtotal + shippingCents + taxCents,
	}
}
