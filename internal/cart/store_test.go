package cart

import (
	"testing"

	"github.com/trolleydev/trolley/internal/shop"
)

func serverCart(items ...shop.CartItem) *shop.Cart {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return &shop.Cart{Items: items, Total: "10.00", TotalItems: total}
}

func item(itemID, productID int64, name string, qty int) shop.CartItem {
	return shop.CartItem{
		ID:              itemID,
		Product:         shop.ProductRef{ID: productID, Name: name, Price: "5.00"},
		Quantity:        qty,
		PriceAtAddition: "5.00",
	}
}

func TestPendingDelta_ExcludesUnchangedEntries(t *testing.T) {
	s := NewStore()
	s.SetPending(1, 3)
	s.SetPending(2, 5)

	delta := s.PendingDelta()
	if len(delta) != 2 || delta[1] != 3 || delta[2] != 5 {
		t.Fatalf("delta = %v, want {1:3 2:5}", delta)
	}

	s.ConfirmDelta(delta)

	// Re-staging the same values must not produce a delta.
	s.SetPending(1, 3)
	s.SetPending(2, 5)
	if delta := s.PendingDelta(); len(delta) != 0 {
		t.Fatalf("delta after confirm = %v, want empty", delta)
	}

	// A changed value reappears in the delta alone.
	s.SetPending(1, 7)
	delta = s.PendingDelta()
	if len(delta) != 1 || delta[1] != 7 {
		t.Fatalf("delta = %v, want {1:7}", delta)
	}
}

func TestConfirmDelta_CarriesMidFlightEdits(t *testing.T) {
	s := NewStore()
	s.SetPending(1, 3)
	delta := s.PendingDelta()

	// The user keeps typing while the sync request is in flight.
	s.SetPending(1, 9)
	s.SetPending(2, 4)

	s.ConfirmDelta(delta)

	if !s.HasPending() {
		t.Fatal("expected pending entries to survive confirmation")
	}
	next := s.PendingDelta()
	if next[1] != 9 || next[2] != 4 {
		t.Fatalf("carried delta = %v, want {1:9 2:4}", next)
	}
}

func TestReplaceFromServer_DropsOmittedLines(t *testing.T) {
	s := NewStore()
	s.ReplaceFromServer(serverCart(item(10, 1, "Mug", 2), item(11, 2, "Pen", 1)))

	s.ReplaceFromServer(serverCart(item(11, 2, "Pen", 1)))

	snap := s.Snapshot()
	if len(snap.Lines) != 1 || snap.Lines[0].ProductID != 2 {
		t.Fatalf("lines = %#v, want only product 2", snap.Lines)
	}
}

func TestMergeFromServer_KeepsPendingForOtherProducts(t *testing.T) {
	s := NewStore()
	s.ReplaceFromServer(serverCart(item(10, 1, "Mug", 2), item(11, 2, "Pen", 1)))

	// Product 2 has an unsynced edit when an add response for product 1 lands.
	s.SetPending(2, 8)
	s.MergeFromServer(serverCart(item(10, 1, "Mug", 3), item(11, 2, "Pen", 1)), 1)

	line, ok := s.Line(2)
	if !ok || line.Quantity != 8 {
		t.Fatalf("product 2 quantity = %d, want pending value 8", line.Quantity)
	}
	line, ok = s.Line(1)
	if !ok || line.Quantity != 3 {
		t.Fatalf("acted product quantity = %d, want server value 3", line.Quantity)
	}
}

func TestMergeFromServer_ActedProductTakesServerValue(t *testing.T) {
	s := NewStore()
	s.ReplaceFromServer(serverCart(item(10, 1, "Mug", 2)))
	s.SetPending(1, 9)

	s.MergeFromServer(serverCart(item(10, 1, "Mug", 5)), 1)

	line, _ := s.Line(1)
	if line.Quantity != 5 {
		t.Fatalf("quantity = %d, want server value 5 for acted product", line.Quantity)
	}
}

func TestSetPending_AppliesOptimistically(t *testing.T) {
	s := NewStore()
	s.ReplaceFromServer(serverCart(item(10, 1, "Mug", 2)))

	s.SetPending(1, 6)

	line, _ := s.Line(1)
	if line.Quantity != 6 {
		t.Fatalf("visible quantity = %d, want 6 before any sync", line.Quantity)
	}
}

func TestRemoveLineAndDiscardPending(t *testing.T) {
	s := NewStore()
	s.ReplaceFromServer(serverCart(item(10, 1, "Mug", 2)))
	s.SetPending(1, 4)

	s.RemoveLine(1)
	s.DiscardPending(1)

	if _, ok := s.Line(1); ok {
		t.Fatal("line still present after removal")
	}
	if s.HasPending() {
		t.Fatal("pending entry survived removal")
	}
	// A fresh pending set for the removed product must still produce a delta
	// (lastSynced was discarded too).
	s.SetPending(1, 4)
	if delta := s.PendingDelta(); delta[1] != 4 {
		t.Fatalf("delta = %v, want {1:4}", delta)
	}
}

func TestSnapshotAndRestore_RoundTrip(t *testing.T) {
	s := NewStore()
	s.ReplaceFromServer(serverCart(item(10, 1, "Mug", 2)))
	s.SetPending(1, 4)

	snap := s.Snapshot()

	// Snapshot must be defensive: mutating it cannot affect the store.
	snap.Lines[0].Quantity = 99
	if line, _ := s.Line(1); line.Quantity == 99 {
		t.Fatal("snapshot shares line storage with the store")
	}

	restored := NewStore()
	restored.Restore(s.Snapshot())
	if line, ok := restored.Line(1); !ok || line.Quantity != 4 {
		t.Fatalf("restored line = %#v, want quantity 4", line)
	}
	// Restored pending must all count as unsynced.
	if delta := restored.PendingDelta(); delta[1] != 4 {
		t.Fatalf("restored delta = %v, want {1:4}", delta)
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.ReplaceFromServer(serverCart(item(10, 1, "Mug", 2)))
	s.SetPending(1, 4)

	s.Clear()

	snap := s.Snapshot()
	if len(snap.Lines) != 0 || len(snap.Pending) != 0 || snap.TotalItems != 0 {
		t.Fatalf("snapshot after clear = %#v, want empty", snap)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		stock     int
		want      int
		wantWarn  bool
	}{
		{"within stock", 3, 10, 3, false},
		{"exactly stock", 10, 10, 10, false},
		{"small overshoot clamps silently", 12, 10, 10, false},
		{"boundary overshoot clamps silently", 15, 10, 10, false},
		{"large overshoot warns", 16, 10, 10, true},
		{"out of stock small request", 2, 0, 0, false},
		{"out of stock large request warns", 6, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warn := Clamp(tt.requested, tt.stock)
			if got != tt.want || warn != tt.wantWarn {
				t.Errorf("Clamp(%d, %d) = (%d, %v), want (%d, %v)",
					tt.requested, tt.stock, got, warn, tt.want, tt.wantWarn)
			}
		})
	}
}
