package domain

import (
	"errors"
	"testing"
)

func idr(amount int64) Money {
	return Money{Currency: "IDR", Amount: amount}
}

func TestCart_AddAndIncrement(t *testing.T) {
	c := NewCart()

	if err := c.Add("p1", "Honey Jar", idr(1000), 3); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := c.Add("p1", "Honey Jar", idr(1000), 3); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	snap := c.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 line, got %d", len(snap))
	}
	if snap[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", snap[0].Quantity)
	}
}

func TestCart_AddRejectsPastObservedStock(t *testing.T) {
	c := NewCart()

	if err := c.Add("p1", "Honey Jar", idr(1000), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := c.Add("p1", "Honey Jar", idr(1000), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	err := c.Add("p1", "Honey Jar", idr(1000), 2)
	if !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("expected ErrStockExceeded, got %v", err)
	}

	// Rejected, not clamped: quantity stays where it was.
	if got := c.Snapshot()[0].Quantity; got != 2 {
		t.Fatalf("expected quantity 2 after rejection, got %d", got)
	}
}

func TestCart_AddOutOfStockProduct(t *testing.T) {
	c := NewCart()

	err := c.Add("p1", "Honey Jar", idr(1000), 0)
	if !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("expected ErrStockExceeded, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", c.Len())
	}
}

func TestCart_RemoveIsIdempotent(t *testing.T) {
	c := NewCart()

	if err := c.Add("p1", "Honey Jar", idr(1000), 5); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	c.Remove("p1")
	c.Remove("p1")
	c.Remove("never-added")

	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", c.Len())
	}
}

func TestCart_TotalAmount(t *testing.T) {
	c := NewCart()

	if got := c.TotalAmount(); got.Amount != 0 {
		t.Fatalf("expected zero total for empty cart, got %d", got.Amount)
	}

	mustAdd := func(id, name string, price Money, stock int32) {
		t.Helper()
		if err := c.Add(id, name, price, stock); err != nil {
			t.Fatalf("add %s failed: %v", id, err)
		}
	}

	mustAdd("a", "A", idr(1000), 2)
	mustAdd("a", "A", idr(1000), 2)
	mustAdd("b", "B", idr(500), 1)

	got := c.TotalAmount()
	if got.Amount != 2500 {
		t.Fatalf("expected total 2500, got %d", got.Amount)
	}
	if got.Currency != "IDR" {
		t.Fatalf("expected currency IDR, got %q", got.Currency)
	}
}

func TestCart_SnapshotIsDetached(t *testing.T) {
	c := NewCart()

	if err := c.Add("p1", "Honey Jar", idr(1000), 5); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	snap := c.Snapshot()
	c.Clear()

	if len(snap) != 1 || snap[0].Quantity != 1 {
		t.Fatalf("snapshot mutated by clear: %+v", snap)
	}
	if c.Len() != 0 {
		t.Fatalf("expected cleared cart, got %d lines", c.Len())
	}
}

func TestCart_SnapshotPreservesInsertionOrder(t *testing.T) {
	c := NewCart()

	for _, id := range []string{"c", "a", "b"} {
		if err := c.Add(id, id, idr(100), 5); err != nil {
			t.Fatalf("add %s failed: %v", id, err)
		}
	}

	snap := c.Snapshot()
	want := []string{"c", "a", "b"}
	for i, ln := range snap {
		if ln.ProductID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], ln.ProductID)
		}
	}
}
