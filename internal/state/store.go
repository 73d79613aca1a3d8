package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/trolleydev/trolley/internal/shop"
)

// Snapshot represents the latest catalog data available to the UI.
type Snapshot struct {
	Products            []shop.Product
	HasProducts         bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(products []shop.Product, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Products = cloneProducts(products)
	s.snapshot.HasProducts = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Products = cloneProducts(s.snapshot.Products)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Stock reports the known stock for a product. The second return is false
// when the product is not in the catalog snapshot.
func (s *Store) Stock(productID int64) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.snapshot.Products {
		if p.ID == productID {
			return p.Stock, true
		}
	}
	return 0, false
}

func cloneProducts(products []shop.Product) []shop.Product {
	if len(products) == 0 {
		return nil
	}
	dup := make([]shop.Product, len(products))
	copy(dup, products)
	return dup
}
