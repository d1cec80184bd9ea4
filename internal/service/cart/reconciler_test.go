package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"shopcart/internal/domain"
)

type stubCatalog struct {
	byID  map[string]domain.Product
	bySKU map[string]domain.Product
	err   error
}

func (s *stubCatalog) GetByID(_ context.Context, _, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *stubCatalog) GetBySKU(_ context.Context, _, sku string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.bySKU[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type stubInventory struct {
	records []domain.AvailabilityRecord
	err     error
}

func (s *stubInventory) ListForUnit(_ context.Context, _, unitID string) ([]domain.AvailabilityRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.AvailabilityRecord
	for _, rec := range s.records {
		if rec.UnitID == unitID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type stubRegions struct {
	regions []domain.CustomShippingRegion
	err     error
	calls   int
}

func (s *stubRegions) ListByStore(_ context.Context, _ string) ([]domain.CustomShippingRegion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.regions, nil
}

func fixtureProduct() domain.Product {
	return domain.Product{
		ID:          "p1",
		SKU:         "SKU-RUNNER",
		Name:        "Trail Runner",
		PriceCents:  9900,
		Currency:    "USD",
		WeightGrams: 4,
		Options: []domain.ProductOption{
			{
				Code: "SHOESIZE",
				Values: []domain.OptionValue{
					{ID: "ov-ten", OptionCode: "SHOESIZE", ValueCode: "ten", PriceDeltaCents: 2000},
				},
			},
		},
	}
}

func fixtureRegions() []domain.CustomShippingRegion {
	return []domain.CustomShippingRegion{
		{
			Name:      "NorthAmerica",
			Countries: []string{"US", "CA"},
			Brackets: []domain.WeightPriceItem{
				{MaxWeightGrams: 5, PriceCents: 1000},
				{MaxWeightGrams: 20, PriceCents: 2500},
			},
		},
	}
}

func fixtureCart(lines ...domain.CartLine) *domain.Cart {
	return &domain.Cart{
		ID:             "c1",
		StoreCode:      "default",
		Currency:       "USD",
		Lines:          lines,
		State:          "active",
		Recompute:      domain.RecomputeDirty,
		ShippingStatus: domain.ShippingNotRequested,
	}
}

func TestReconcilePricesAndQuotesShipping(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]domain.Product{"p1": fixtureProduct()}}
	inventory := &stubInventory{records: []domain.AvailabilityRecord{
		{UnitID: "p1", Region: domain.RegionAll, QuantityOnHand: 10},
	}}
	regions := &stubRegions{regions: fixtureRegions()}
	r := NewReconciler(catalog, inventory, regions, nil)

	cart := fixtureCart(domain.CartLine{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 3})
	cart.DestinationCountry = "CA"

	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 1 || len(cart.Unavailable) != 0 {
		t.Fatalf("expected one surviving line, got %+v", cart)
	}
	line := cart.Lines[0]
	if line.UnitPriceCents != 9900 || line.SubtotalCents != 29700 {
		t.Fatalf("expected 9900/29700, got %d/%d", line.UnitPriceCents, line.SubtotalCents)
	}
	// 3 units x 4g = 12g lands in the 20g bracket.
	if cart.ShippingStatus != domain.ShippingQuoted || cart.ShippingCents != 2500 {
		t.Fatalf("expected quoted 2500, got %s %d", cart.ShippingStatus, cart.ShippingCents)
	}
	if cart.SubtotalCents != 29700 || cart.TotalCents != 32200 {
		t.Fatalf("expected 29700/32200, got %d/%d", cart.SubtotalCents, cart.TotalCents)
	}
	if cart.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Quantity)
	}
	if cart.Recompute != domain.RecomputeReconciled {
		t.Fatalf("expected reconciled after reconcile, got %s", cart.Recompute)
	}
	if regions.calls != 1 {
		t.Fatalf("region matcher should run once per cart, ran %d times", regions.calls)
	}
}

func TestReconcileOutOfStockMovesLineAside(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]domain.Product{"p1": fixtureProduct()}}
	inventory := &stubInventory{records: []domain.AvailabilityRecord{
		{UnitID: "p1", Region: domain.RegionAll, QuantityOnHand: 0},
	}}
	r := NewReconciler(catalog, inventory, &stubRegions{}, nil)

	cart := fixtureCart(domain.CartLine{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 1})
	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty active list, got %+v", cart.Lines)
	}
	if len(cart.Unavailable) != 1 || cart.Unavailable[0].Line.ID != "l1" {
		t.Fatalf("expected l1 flagged unavailable, got %+v", cart.Unavailable)
	}
	if cart.SubtotalCents != 0 || cart.TotalCents != 0 {
		t.Fatalf("expected zero totals, got %d/%d", cart.SubtotalCents, cart.TotalCents)
	}
}

func TestReconcileVanishedProductIsDiscontinued(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]domain.Product{}}
	r := NewReconciler(catalog, &stubInventory{}, &stubRegions{}, nil)

	cart := fixtureCart(domain.CartLine{ID: "l1", CartID: "c1", ProductID: "gone", Quantity: 2})
	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Unavailable) != 1 {
		t.Fatalf("expected one unavailable line, got %+v", cart.Unavailable)
	}
	if cart.Unavailable[0].Reason != domain.ErrDiscontinued.Error() {
		t.Fatalf("expected discontinued reason, got %q", cart.Unavailable[0].Reason)
	}
}

func TestReconcileBadSelectionKeepsOriginalForDisplay(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]domain.Product{"p1": fixtureProduct()}}
	r := NewReconciler(catalog, &stubInventory{}, &stubRegions{}, nil)

	cart := fixtureCart(domain.CartLine{
		ID:                     "l1",
		CartID:                 "c1",
		ProductID:              "p1",
		SelectedOptionValueIDs: []string{"ov-vanished"},
		Quantity:               1,
	})
	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Unavailable) != 1 {
		t.Fatalf("expected line flagged, got %+v", cart)
	}
	kept := cart.Unavailable[0].Line
	if len(kept.SelectedOptionValueIDs) != 1 || kept.SelectedOptionValueIDs[0] != "ov-vanished" {
		t.Fatalf("original selection must be preserved, got %+v", kept)
	}
}

func TestReconcileNoRegionMatchedIsNotZeroCost(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]domain.Product{"p1": fixtureProduct()}}
	inventory := &stubInventory{records: []domain.AvailabilityRecord{
		{UnitID: "p1", Region: domain.RegionAll, QuantityOnHand: 10},
	}}
	regions := &stubRegions{regions: fixtureRegions()}
	r := NewReconciler(catalog, inventory, regions, nil)

	// 13 units x 4g = 52g exceeds every bracket.
	cart := fixtureCart(domain.CartLine{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 13})
	cart.DestinationCountry = "CA"

	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ShippingStatus != domain.ShippingUnavailable {
		t.Fatalf("expected shipping unavailable, got %s", cart.ShippingStatus)
	}
	if cart.ShippingCents != 0 {
		t.Fatalf("unmatched region must not contribute cost, got %d", cart.ShippingCents)
	}
	if cart.SubtotalCents == 0 || cart.TotalCents != cart.SubtotalCents {
		t.Fatalf("total should carry only the subtotal, got %+v", cart)
	}
}

func TestReconcileNoDestinationSkipsShipping(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]domain.Product{"p1": fixtureProduct()}}
	inventory := &stubInventory{records: []domain.AvailabilityRecord{
		{UnitID: "p1", Region: domain.RegionAll, QuantityOnHand: 10},
	}}
	regions := &stubRegions{regions: fixtureRegions()}
	r := NewReconciler(catalog, inventory, regions, nil)

	cart := fixtureCart(domain.CartLine{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 1})
	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ShippingStatus != domain.ShippingNotRequested {
		t.Fatalf("expected not_requested, got %s", cart.ShippingStatus)
	}
	if regions.calls != 0 {
		t.Fatalf("no destination: matcher should not run, ran %d times", regions.calls)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]domain.Product{"p1": fixtureProduct()}}
	inventory := &stubInventory{records: []domain.AvailabilityRecord{
		{UnitID: "p1", Region: domain.RegionAll, QuantityOnHand: 10},
	}}
	r := NewReconciler(catalog, inventory, &stubRegions{regions: fixtureRegions()}, nil)

	cart := fixtureCart(domain.CartLine{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 3})
	cart.DestinationCountry = "US"

	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	first, err := json.Marshal(ToReadable(*cart))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	second, err := json.Marshal(ToReadable(*cart))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("projections differ:\n%s\n%s", first, second)
	}
}

func TestReconcileRepeatKeepsUnavailableLines(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]domain.Product{"p1": fixtureProduct()}}
	inventory := &stubInventory{records: []domain.AvailabilityRecord{
		{UnitID: "p1", Region: domain.RegionAll, QuantityOnHand: 0},
	}}
	r := NewReconciler(catalog, inventory, &stubRegions{}, nil)

	cart := fixtureCart(domain.CartLine{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 1})
	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	first, err := json.Marshal(ToReadable(*cart))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if len(cart.Unavailable) != 1 || cart.Unavailable[0].Line.ID != "l1" {
		t.Fatalf("flagged line must survive a repeat pass, got %+v", cart.Unavailable)
	}
	second, err := json.Marshal(ToReadable(*cart))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("projections differ:\n%s\n%s", first, second)
	}
}

func TestReconcileRestockedLineRejoinsCart(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]domain.Product{"p1": fixtureProduct()}}
	inventory := &stubInventory{records: []domain.AvailabilityRecord{
		{UnitID: "p1", Region: domain.RegionAll, QuantityOnHand: 0},
	}}
	r := NewReconciler(catalog, inventory, &stubRegions{}, nil)

	cart := fixtureCart(domain.CartLine{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 2})
	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if len(cart.Unavailable) != 1 {
		t.Fatalf("expected line flagged while out of stock, got %+v", cart)
	}

	inventory.records[0].QuantityOnHand = 5
	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].ID != "l1" {
		t.Fatalf("restocked line should rejoin the cart, got %+v", cart.Lines)
	}
	if len(cart.Unavailable) != 0 {
		t.Fatalf("expected no unavailable lines, got %+v", cart.Unavailable)
	}
	if cart.SubtotalCents != 19800 || cart.Quantity != 2 {
		t.Fatalf("expected 19800/2, got %d/%d", cart.SubtotalCents, cart.Quantity)
	}
}

func TestReconcilePropagatesLookupErrors(t *testing.T) {
	boom := errors.New("pool exhausted")
	r := NewReconciler(&stubCatalog{err: boom}, &stubInventory{}, &stubRegions{}, nil)

	cart := fixtureCart(domain.CartLine{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 1})
	if err := r.Reconcile(context.Background(), cart); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error to propagate unchanged, got %v", err)
	}
}

func TestReconcileMixedCartKeepsSurvivors(t *testing.T) {
	mug := domain.Product{ID: "p2", SKU: "SKU-MUG", Name: "Camp Mug", PriceCents: 1299, Currency: "USD", WeightGrams: 2}
	catalog := &stubCatalog{byID: map[string]domain.Product{
		"p1": fixtureProduct(),
		"p2": mug,
	}}
	inventory := &stubInventory{records: []domain.AvailabilityRecord{
		{UnitID: "p1", Region: domain.RegionAll, QuantityOnHand: 0},
		{UnitID: "p2", Region: domain.RegionAll, QuantityOnHand: 5},
	}}
	r := NewReconciler(catalog, inventory, &stubRegions{}, nil)

	cart := fixtureCart(
		domain.CartLine{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 1},
		domain.CartLine{ID: "l2", CartID: "c1", ProductID: "p2", Quantity: 2},
	)
	if err := r.Reconcile(context.Background(), cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].ID != "l2" {
		t.Fatalf("expected only l2 to survive, got %+v", cart.Lines)
	}
	if len(cart.Unavailable) != 1 || cart.Unavailable[0].Line.ID != "l1" {
		t.Fatalf("expected l1 flagged, got %+v", cart.Unavailable)
	}
	if cart.SubtotalCents != 2598 || cart.Quantity != 2 {
		t.Fatalf("expected 2598/2, got %d/%d", cart.SubtotalCents, cart.Quantity)
	}
}
