package availability

import (
	"testing"

	"shopcart/internal/domain"
)

func unit(id string) domain.ResolvedUnit {
	return domain.ResolvedUnit{UnitID: id, SKU: "SKU-" + id}
}

func TestCheckWildcardRecordAppliesEverywhere(t *testing.T) {
	records := []domain.AvailabilityRecord{
		{UnitID: "u1", Region: domain.RegionAll, QuantityOnHand: 7},
	}
	got := Check(unit("u1"), "CA", records)
	if got.Status != domain.StatusAvailable || got.QuantityOnHand != 7 {
		t.Fatalf("expected available qty 7, got %+v", got)
	}
}

func TestCheckRegionSpecificBeatsWildcard(t *testing.T) {
	records := []domain.AvailabilityRecord{
		{UnitID: "u1", Region: domain.RegionAll, QuantityOnHand: 7},
		{UnitID: "u1", Region: "CA", QuantityOnHand: 0},
	}
	got := Check(unit("u1"), "CA", records)
	if got.Status != domain.StatusOutOfStock {
		t.Fatalf("CA record should win over wildcard, got %+v", got)
	}

	// Another region still sees the wildcard stock.
	got = Check(unit("u1"), "US", records)
	if got.Status != domain.StatusAvailable || got.QuantityOnHand != 7 {
		t.Fatalf("US should fall back to wildcard, got %+v", got)
	}
}

func TestCheckBackorderKeepsZeroStockAvailable(t *testing.T) {
	records := []domain.AvailabilityRecord{
		{UnitID: "u1", Region: domain.RegionAll, QuantityOnHand: 0, AllowBackorder: true},
	}
	got := Check(unit("u1"), "US", records)
	if got.Status != domain.StatusAvailable {
		t.Fatalf("backorderable unit should stay available, got %+v", got)
	}
}

func TestCheckNoRecordMeansDiscontinued(t *testing.T) {
	records := []domain.AvailabilityRecord{
		{UnitID: "other", Region: domain.RegionAll, QuantityOnHand: 5},
	}
	got := Check(unit("u1"), "US", records)
	if got.Status != domain.StatusDiscontinued {
		t.Fatalf("expected discontinued, got %+v", got)
	}
}

func TestCheckRegionSpecificWinsRegardlessOfOrder(t *testing.T) {
	records := []domain.AvailabilityRecord{
		{UnitID: "u1", Region: "CA", QuantityOnHand: 3},
		{UnitID: "u1", Region: domain.RegionAll, QuantityOnHand: 0},
	}
	got := Check(unit("u1"), "CA", records)
	if got.Status != domain.StatusAvailable || got.QuantityOnHand != 3 {
		t.Fatalf("expected CA record, got %+v", got)
	}
}
