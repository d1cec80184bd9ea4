package cart

import (
	"context"
	"errors"

	"shopcart/internal/domain"
	"shopcart/internal/service/availability"
	"shopcart/internal/service/pricing"
	"shopcart/internal/service/shipping"
	"shopcart/internal/service/variant"
)

// Catalog is the read side of the product catalog.
type Catalog interface {
	GetByID(ctx context.Context, storeCode, productID string) (*domain.Product, error)
	GetBySKU(ctx context.Context, storeCode, sku string) (*domain.Product, error)
}

// Inventory supplies stock records for one sellable unit.
type Inventory interface {
	ListForUnit(ctx context.Context, storeCode, unitID string) ([]domain.AvailabilityRecord, error)
}

// RegionSource supplies a store's custom shipping regions in the
// merchant's declaration order.
type RegionSource interface {
	ListByStore(ctx context.Context, storeCode string) ([]domain.CustomShippingRegion, error)
}

// Reconciler re-derives a cart's availability, pricing and totals from
// its current lines and the catalog/inventory snapshots behind the
// injected lookups. It owns the cart exclusively for the duration of a
// call; a hosting service under concurrent access must serialize calls
// per cart.
type Reconciler struct {
	catalog   Catalog
	inventory Inventory
	regions   RegionSource
	tax       pricing.TaxFunc
}

func NewReconciler(catalog Catalog, inventory Inventory, regions RegionSource, tax pricing.TaxFunc) *Reconciler {
	if tax == nil {
		tax = pricing.NoTax
	}
	return &Reconciler{catalog: catalog, inventory: inventory, regions: regions, tax: tax}
}

// Reconcile walks every line: resolve the selection, check stock, price
// the survivors. Lines that fail move to cart.Unavailable with their
// original selection intact so the user can be told; they are never
// silently dropped. Previously-flagged lines re-enter resolution on
// every pass, so a repeat call with no intervening mutation produces an
// identical cart, and a line whose product came back rejoins the active
// list. Lookup errors other than the typed failures propagate
// unchanged.
func (r *Reconciler) Reconcile(ctx context.Context, c *domain.Cart) error {
	lines := make([]domain.CartLine, 0, len(c.Lines)+len(c.Unavailable))
	lines = append(lines, c.Lines...)
	for _, u := range c.Unavailable {
		lines = append(lines, u.Line)
	}

	active := make([]domain.CartLine, 0, len(lines))
	var unavailable []domain.UnavailableLine
	subtotals := make([]int64, 0, len(lines))
	var totalWeight int64
	quantity := 0

	for _, line := range lines {
		p, err := r.catalog.GetByID(ctx, c.StoreCode, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				unavailable = append(unavailable, domain.UnavailableLine{
					Line:   line,
					Reason: domain.ErrDiscontinued.Error(),
				})
				continue
			}
			return err
		}

		unit, err := variant.Resolve(*p, line.SelectedOptionValueIDs)
		if err != nil {
			unavailable = append(unavailable, domain.UnavailableLine{
				Line:   line,
				Reason: err.Error(),
			})
			continue
		}

		records, err := r.inventory.ListForUnit(ctx, c.StoreCode, unit.UnitID)
		if err != nil {
			return err
		}
		avail := availability.Check(unit, c.DestinationCountry, records)
		if avail.Status != domain.StatusAvailable {
			unavailable = append(unavailable, domain.UnavailableLine{
				Line: line,
				Reason: (&domain.AvailabilityError{
					UnitID: unit.UnitID,
					SKU:    unit.SKU,
					Err:    statusErr(avail.Status),
				}).Error(),
			})
			continue
		}

		line.SKU = unit.SKU
		line.Name = unit.Name
		line.UnitPriceCents = unit.PriceCents
		line.SubtotalCents = pricing.LineSubtotal(unit, line.Quantity)
		line.WeightGrams = unit.WeightGrams
		active = append(active, line)
		subtotals = append(subtotals, line.SubtotalCents)
		totalWeight += unit.WeightGrams * int64(line.Quantity)
		quantity += line.Quantity
	}

	var shippingCents int64
	shippingStatus := domain.ShippingNotRequested
	if c.DestinationCountry != "" {
		regions, err := r.regions.ListByStore(ctx, c.StoreCode)
		if err != nil {
			return err
		}
		quote, err := shipping.Match(c.DestinationCountry, totalWeight, regions)
		switch {
		case err == nil:
			shippingCents = quote.PriceCents
			shippingStatus = domain.ShippingQuoted
		case errors.Is(err, domain.ErrNoRegionMatched):
			shippingStatus = domain.ShippingUnavailable
		default:
			return err
		}
	}

	totals := pricing.CartTotal(subtotals, shippingCents, r.tax)

	c.Lines = active
	c.Unavailable = unavailable
	c.Quantity = quantity
	c.SubtotalCents = totals.SubtotalCents
	c.ShippingCents = totals.ShippingCents
	c.ShippingStatus = shippingStatus
	c.TotalCents = totals.TotalCents
	// The cart becomes clean only once the derived values are persisted
	// and reloaded; until then it is merely reconciled.
	c.Recompute = domain.RecomputeReconciled
	return nil
}

func statusErr(s domain.AvailabilityStatus) error {
	if s == domain.StatusDiscontinued {
		return domain.ErrDiscontinued
	}
	return domain.ErrOutOfStock
}
