package cart

import (
	"sync"

	"github.com/trolleydev/trolley/internal/shop"
)

// Line is one cart entry as the client sees it. ItemID stays zero until the
// backend has assigned an identity to the line.
type Line struct {
	ItemID    int64
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice string
}

// Snapshot is an immutable copy of the cart for rendering and persistence.
type Snapshot struct {
	Lines      []Line
	Pending    map[int64]int
	Total      string
	TotalItems int
}

// Store holds the local, optimistic view of the cart: the line items, the
// quantities not yet confirmed by the backend (pending), and the quantities
// last known to have been sent (lastSynced, used purely for delta
// computation). A productID appears at most once in each collection.
type Store struct {
	mu         sync.RWMutex
	lines      []Line
	pending    map[int64]int
	lastSynced map[int64]int
	total      string
	totalItems int
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{
		pending:    make(map[int64]int),
		lastSynced: make(map[int64]int),
	}
}

// ReplaceFromServer discards local line state in favor of the server's.
// Used after fetch and delete responses, where the server's omission of a
// line is itself the signal of success.
func (s *Store) ReplaceFromServer(c *shop.Cart) {
	if c == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = linesFromServer(c)
	s.total = c.Total
	s.totalItems = c.TotalItems
}

// MergeFromServer adopts the server's line list but keeps local pending
// quantities for products other than actedProduct, so an in-progress edit
// elsewhere in the cart does not visibly snap back while its sync is still
// queued. The acted-on product always takes the server value.
func (s *Store) MergeFromServer(c *shop.Cart, actedProduct int64) {
	if c == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := linesFromServer(c)
	for i := range lines {
		if lines[i].ProductID == actedProduct {
			continue
		}
		if qty, ok := s.pending[lines[i].ProductID]; ok {
			lines[i].Quantity = qty
		}
	}
	s.lines = lines
	s.total = c.Total
	s.totalItems = c.TotalItems
}

// SetPending records the latest desired quantity for a product and applies
// it optimistically to the visible line.
func (s *Store) SetPending(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[productID] = quantity
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			break
		}
	}
}

// PendingDelta returns the pending entries whose quantity differs from the
// last value successfully sent. Unchanged entries are excluded so the sync
// payload stays proportional to actual changes.
func (s *Store) PendingDelta() map[int64]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	delta := make(map[int64]int)
	for productID, qty := range s.pending {
		if last, ok := s.lastSynced[productID]; ok && last == qty {
			continue
		}
		delta[productID] = qty
	}
	return delta
}

// HasPending reports whether any unconfirmed quantity changes exist.
func (s *Store) HasPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending) > 0
}

// ConfirmDelta records a successfully synced delta: lastSynced picks up the
// delta values and the pending map is replaced wholesale, not entry by
// entry. Entries that changed while the sync was in flight survive into the
// fresh map so the caller's recheck pass can drain them.
func (s *Store) ConfirmDelta(delta map[int64]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for productID, qty := range delta {
		s.lastSynced[productID] = qty
	}
	carried := make(map[int64]int)
	for productID, qty := range s.pending {
		if sent, ok := delta[productID]; ok && sent == qty {
			continue
		}
		carried[productID] = qty
	}
	s.pending = carried
}

// DiscardPending drops any pending and last-synced record for a product.
// Used when a line is removed so a stale quantity cannot resurrect it.
func (s *Store) DiscardPending(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, productID)
	delete(s.lastSynced, productID)
}

// RemoveLine drops a line locally (optimistic removal ahead of the delete
// request). The authoritative list arrives with the server response.
func (s *Store) RemoveLine(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
}

// Line returns the line for a product, if present.
func (s *Store) Line(productID int64) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// Snapshot returns a defensive copy of the current cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Total:      s.total,
		TotalItems: s.totalItems,
		Pending:    make(map[int64]int, len(s.pending)),
	}
	if len(s.lines) > 0 {
		snap.Lines = make([]Line, len(s.lines))
		copy(snap.Lines, s.lines)
	}
	for productID, qty := range s.pending {
		snap.Pending[productID] = qty
	}
	return snap
}

// Restore replaces the store's contents from a persisted snapshot. Used as
// a crash-recovery hint when the authoritative fetch is unavailable.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	if len(snap.Lines) > 0 {
		s.lines = make([]Line, len(snap.Lines))
		copy(s.lines, snap.Lines)
	}
	s.pending = make(map[int64]int, len(snap.Pending))
	for productID, qty := range snap.Pending {
		s.pending[productID] = qty
	}
	s.lastSynced = make(map[int64]int)
	s.total = snap.Total
	s.totalItems = snap.TotalItems
}

// Clear empties the store entirely. Called on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.pending = make(map[int64]int)
	s.lastSynced = make(map[int64]int)
	s.total = ""
	s.totalItems = 0
}

// Clamp bounds a requested quantity to the available stock. The second
// return reports whether the request overshot by enough (more than 5 above
// stock) to warrant a user-visible warning rather than a silent clamp.
func Clamp(requested, stock int) (int, bool) {
	if stock <= 0 {
		return 0, requested > 5
	}
	if requested <= stock {
		return requested, false
	}
	return stock, requested > stock+5
}

func linesFromServer(c *shop.Cart) []Line {
	if len(c.Items) == 0 {
		return nil
	}
	lines := make([]Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, Line{
			ItemID:    item.ID,
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.PriceAtAddition,
		})
	}
	return lines
}
