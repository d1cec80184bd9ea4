package domain

import "testing"

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 1},
		{-5, 1},
		{1, 1},
		{7, 7},
	}
	for _, tc := range cases {
		if got := NormalizeQuantity(tc.in); got != tc.want {
			t.Fatalf("NormalizeQuantity(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCartMutationsMarkDirty(t *testing.T) {
	cart := &Cart{ID: "c1", Recompute: RecomputeClean}

	cart.AddLine(CartLine{ID: "l1", Quantity: 0})
	if cart.Recompute != RecomputeDirty {
		t.Fatalf("add should dirty the cart, got %s", cart.Recompute)
	}
	if cart.Lines[0].Quantity != 1 {
		t.Fatalf("quantity 0 should normalize to 1 on add, got %d", cart.Lines[0].Quantity)
	}

	cart.Recompute = RecomputeClean
	if !cart.SetLineQuantity("l1", -5) {
		t.Fatalf("expected line l1 to exist")
	}
	if cart.Lines[0].Quantity != 1 {
		t.Fatalf("quantity -5 should normalize to 1, got %d", cart.Lines[0].Quantity)
	}
	if cart.Recompute != RecomputeDirty {
		t.Fatalf("quantity change should dirty the cart")
	}

	cart.Recompute = RecomputeClean
	cart.SetDestination("CA")
	if cart.Recompute != RecomputeDirty || cart.DestinationCountry != "CA" {
		t.Fatalf("destination change should dirty the cart, got %+v", cart)
	}
}

func TestCartLinesKeepInsertionOrder(t *testing.T) {
	cart := &Cart{}
	cart.AddLine(CartLine{ID: "a", Quantity: 1})
	cart.AddLine(CartLine{ID: "b", Quantity: 1})
	cart.AddLine(CartLine{ID: "c", Quantity: 1})

	if !cart.RemoveLine("b") {
		t.Fatalf("expected line b to exist")
	}
	if len(cart.Lines) != 2 || cart.Lines[0].ID != "a" || cart.Lines[1].ID != "c" {
		t.Fatalf("expected [a c], got %+v", cart.Lines)
	}
	if cart.RemoveLine("b") {
		t.Fatalf("removing a missing line should report false")
	}
}
