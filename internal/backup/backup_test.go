package backup

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/trolleydev/trolley/internal/cart"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "backup.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadCart_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap := cart.Snapshot{
		Lines: []cart.Line{
			{ItemID: 10, ProductID: 1, Name: "Mug", Quantity: 2, UnitPrice: "4.99"},
		},
		Pending:    map[int64]int{1: 3},
		Total:      "9.98",
		TotalItems: 2,
	}
	if err := s.SaveCart(ctx, snap); err != nil {
		t.Fatalf("SaveCart returned error: %v", err)
	}

	loaded, err := s.LoadCart(ctx)
	if err != nil {
		t.Fatalf("LoadCart returned error: %v", err)
	}
	if len(loaded.Lines) != 1 || loaded.Lines[0].Name != "Mug" {
		t.Fatalf("loaded lines = %#v", loaded.Lines)
	}
	if loaded.Pending[1] != 3 {
		t.Fatalf("loaded pending = %v, want {1:3}", loaded.Pending)
	}
	if loaded.Total != "9.98" || loaded.TotalItems != 2 {
		t.Fatalf("loaded totals = %q/%d", loaded.Total, loaded.TotalItems)
	}
}

func TestSaveCart_ReplacesPreviousSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.SaveCart(ctx, cart.Snapshot{TotalItems: 1})
	if err := s.SaveCart(ctx, cart.Snapshot{TotalItems: 5}); err != nil {
		t.Fatalf("second SaveCart returned error: %v", err)
	}

	loaded, err := s.LoadCart(ctx)
	if err != nil {
		t.Fatalf("LoadCart returned error: %v", err)
	}
	if loaded.TotalItems != 5 {
		t.Fatalf("TotalItems = %d, want the latest snapshot", loaded.TotalItems)
	}
}

func TestLoadCart_NoSnapshot(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadCart(context.Background())
	if !errors.Is(err, ErrNoBackup) {
		t.Fatalf("err = %v, want ErrNoBackup", err)
	}
}

func TestClearCart(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.SaveCart(ctx, cart.Snapshot{TotalItems: 2})
	if err := s.ClearCart(ctx); err != nil {
		t.Fatalf("ClearCart returned error: %v", err)
	}
	if _, err := s.LoadCart(ctx); !errors.Is(err, ErrNoBackup) {
		t.Fatalf("err after clear = %v, want ErrNoBackup", err)
	}

	// Clearing an already-empty store is not an error.
	if err := s.ClearCart(ctx); err != nil {
		t.Fatalf("second ClearCart returned error: %v", err)
	}
}
