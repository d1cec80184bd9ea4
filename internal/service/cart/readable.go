package cart

import "shopcart/internal/domain"

// ReadableCart is the read-only projection handed to the web layer for
// JSON serialization. It is composed from the domain cart, never
// subclassed from it, and carries everything the storefront needs to
// render the cart and notify about items that fell out.
type ReadableCart struct {
	ID                 string               `json:"id"`
	Currency           string               `json:"currency"`
	DestinationCountry string               `json:"destinationCountry,omitempty"`
	LineItems          []ReadableLineItem   `json:"lineItems"`
	UnavailableItems   []UnavailableItem    `json:"unavailableItems"`
	Quantity           int                  `json:"quantity"`
	SubtotalCents      int64                `json:"subtotalCents"`
	ShippingCents      int64                `json:"shippingCents"`
	ShippingStatus     domain.ShippingStatus `json:"shippingStatus"`
	TotalCents         int64                `json:"totalCents"`
	OrderID            *string              `json:"orderId,omitempty"`
}

type ReadableLineItem struct {
	ID                     string   `json:"id"`
	ProductID              string   `json:"productId"`
	SKU                    string   `json:"sku"`
	Name                   string   `json:"name"`
	SelectedOptionValueIDs []string `json:"selectedOptionValueIds,omitempty"`
	Quantity               int      `json:"quantity"`
	UnitPriceCents         int64    `json:"unitPriceCents"`
	SubtotalCents          int64    `json:"subtotalCents"`
}

// UnavailableItem keeps the failed line's original selection so the
// storefront can offer a corrected re-add.
type UnavailableItem struct {
	Item   ReadableLineItem `json:"item"`
	Reason string           `json:"reason"`
}

func ToReadable(c domain.Cart) ReadableCart {
	lines := make([]ReadableLineItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, toReadableLine(line))
	}
	unavailable := make([]UnavailableItem, 0, len(c.Unavailable))
	for _, u := range c.Unavailable {
		unavailable = append(unavailable, UnavailableItem{
			Item:   toReadableLine(u.Line),
			Reason: u.Reason,
		})
	}
	return ReadableCart{
		ID:                 c.ID,
		Currency:           c.Currency,
		DestinationCountry: c.DestinationCountry,
		LineItems:          lines,
		UnavailableItems:   unavailable,
		Quantity:           c.Quantity,
		SubtotalCents:      c.SubtotalCents,
		ShippingCents:      c.ShippingCents,
		ShippingStatus:     c.ShippingStatus,
		TotalCents:         c.TotalCents,
		OrderID:            c.OrderID,
	}
}

func toReadableLine(line domain.CartLine) ReadableLineItem {
	return ReadableLineItem{
		ID:                     line.ID,
		ProductID:              line.ProductID,
		SKU:                    line.SKU,
		Name:                   line.Name,
		SelectedOptionValueIDs: line.SelectedOptionValueIDs,
		Quantity:               line.Quantity,
		UnitPriceCents:         line.UnitPriceCents,
		SubtotalCents:          line.SubtotalCents,
	}
}
