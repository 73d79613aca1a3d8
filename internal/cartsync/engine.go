package cartsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/trolleydev/trolley/internal/cart"
	"github.com/trolleydev/trolley/internal/notify"
	"github.com/trolleydev/trolley/internal/shop"
)

// Sentinel errors returned by the add path so callers can revert optimistic
// UI state and explain the rejection.
var (
	ErrNotAuthenticated  = errors.New("cartsync: not authenticated")
	ErrOutOfStock        = errors.New("cartsync: product out of stock")
	ErrInsufficientStock = errors.New("cartsync: requested quantity exceeds stock")
)

// Backupper persists the cart snapshot as a crash-recovery hint.
type Backupper interface {
	SaveCart(ctx context.Context, snap cart.Snapshot) error
	ClearCart(ctx context.Context) error
}

// StockFunc reports the known stock for a product. The second return is
// false when the product is not in the local catalog snapshot.
type StockFunc func(productID int64) (int, bool)

// Config tunes the engine's timing. Zero values select the defaults.
type Config struct {
	Debounce     time.Duration // quiet window before a pending batch is synced
	RecheckDelay time.Duration // delay before draining edits that arrived mid-sync
	AddGuard     time.Duration // window that swallows duplicate rapid add calls
	MaxDeletes   int64         // max concurrent removal requests
	Retry        RetryPolicy
}

const (
	defaultDebounce     = 300 * time.Millisecond
	defaultRecheckDelay = 100 * time.Millisecond
	defaultAddGuard     = 500 * time.Millisecond
	defaultMaxDeletes   = 3
)

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = defaultDebounce
	}
	if c.RecheckDelay <= 0 {
		c.RecheckDelay = defaultRecheckDelay
	}
	if c.AddGuard <= 0 {
		c.AddGuard = defaultAddGuard
	}
	if c.MaxDeletes <= 0 {
		c.MaxDeletes = defaultMaxDeletes
	}
	if c.Retry.Attempts == 0 {
		c.Retry = DefaultRetryPolicy()
	}
	return c
}

// Options configure an Engine.
type Options struct {
	Context       context.Context
	Store         *cart.Store
	Backend       shop.Backend
	Backup        Backupper // optional
	Notices       *notify.Center
	Logger        *zap.Logger
	Stock         StockFunc   // optional; unknown products skip stock checks
	Authenticated func() bool // optional; nil means always authenticated
	Config        Config
}

// Engine reconciles the local cart store against the backend. All
// coordination state (single-flight flag, debounce timer, delete queue, add
// guard) lives on the instance; nothing is package-global, so independent
// engines never interfere.
type Engine struct {
	ctx     context.Context
	store   *cart.Store
	api     shop.Backend
	backup  Backupper
	notices *notify.Center
	log     *zap.Logger
	stock   StockFunc
	authed  func() bool
	cfg     Config

	mu       sync.Mutex
	debounce *time.Timer
	syncing  bool
	addGuard map[int64]time.Time

	deletes *deleteQueue
}

// New builds an Engine. Store, Backend and Notices are required.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("cartsync: store required")
	}
	if opts.Backend == nil {
		return nil, fmt.Errorf("cartsync: backend required")
	}
	if opts.Notices == nil {
		return nil, fmt.Errorf("cartsync: notice center required")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config.withDefaults()
	return &Engine{
		ctx:      ctx,
		store:    opts.Store,
		api:      opts.Backend,
		backup:   opts.Backup,
		notices:  opts.Notices,
		log:      log,
		stock:    opts.Stock,
		authed:   opts.Authenticated,
		cfg:      cfg,
		addGuard: make(map[int64]time.Time),
		deletes:  newDeleteQueue(cfg.MaxDeletes),
	}, nil
}

// UpdateQuantity applies a quantity edit for a product already in the cart:
// the value is clamped to known stock, staged as pending, persisted to the
// backup, and scheduled for a debounced sync. Returns the applied quantity.
// A warning notice fires only when the request overshoots stock by more
// than 5; smaller overshoots clamp silently.
func (e *Engine) UpdateQuantity(productID int64, requested int) int {
	if requested < 1 {
		requested = 1
	}
	applied := requested
	if e.stock != nil {
		if stock, known := e.stock(productID); known {
			var warn bool
			applied, warn = cart.Clamp(requested, stock)
			if warn {
				e.notices.Warning(fmt.Sprintf("Only %d in stock; quantity adjusted", stock))
			}
			if applied < 1 {
				return 0
			}
		}
	}
	e.UpdateWithDebounce(productID, applied)
	return applied
}

// UpdateWithDebounce stages a quantity change and (re)arms the sync timer.
// Rapid calls within the debounce window coalesce into one backend round
// trip carrying only the final values. Failures surface asynchronously from
// the eventual sync attempt.
func (e *Engine) UpdateWithDebounce(productID int64, quantity int) {
	e.store.SetPending(productID, quantity)
	e.saveBackup()

	e.mu.Lock()
	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = time.AfterFunc(e.cfg.Debounce, func() {
		e.SyncPending(e.ctx)
	})
	e.mu.Unlock()
}

// SyncPending sends the current pending delta to the backend as one bulk
// update. It is single-flight: a call arriving while a sync is running
// returns false without starting a second request, relying on the
// post-success recheck to drain anything that arrived meanwhile. An empty
// delta returns true without touching the network.
func (e *Engine) SyncPending(ctx context.Context) bool {
	e.mu.Lock()
	if e.syncing {
		e.mu.Unlock()
		return false
	}
	delta := e.store.PendingDelta()
	if len(delta) == 0 {
		e.mu.Unlock()
		return true
	}
	e.syncing = true
	e.mu.Unlock()

	var serverCart *shop.Cart
	err := e.cfg.Retry.do(ctx, func(ctx context.Context) error {
		c, err := e.api.BulkUpdate(ctx, delta)
		if err != nil {
			return err
		}
		serverCart = c
		return nil
	})

	if err != nil {
		e.mu.Lock()
		e.syncing = false
		e.mu.Unlock()
		e.log.Warn("cart sync failed", zap.Int("delta_size", len(delta)), zap.Error(err))
		e.notices.Error(syncFailureMessage(err))
		return false
	}

	e.store.ConfirmDelta(delta)
	e.store.MergeFromServer(serverCart, 0)
	e.saveBackup()
	e.notices.Success("Cart synced")

	e.mu.Lock()
	e.syncing = false
	e.mu.Unlock()

	// Edits that landed while the request was in flight survive in the
	// pending map; give them their own pass shortly.
	if e.store.HasPending() {
		time.AfterFunc(e.cfg.RecheckDelay, func() {
			e.SyncPending(e.ctx)
		})
	}
	return true
}

// ForceSync cancels any scheduled debounce and syncs immediately. Used
// before checkout so the backend holds the latest state.
func (e *Engine) ForceSync(ctx context.Context) bool {
	e.mu.Lock()
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
	e.mu.Unlock()
	return e.SyncPending(ctx)
}

// Add sends an add-to-cart request. It validates authentication and stock,
// swallows duplicate rapid calls for the same product, and on success merges
// the server's cart while keeping optimistic edits on other products. The
// error is returned (after the notice fires) so the caller can revert its
// own optimistic state.
func (e *Engine) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if e.authed != nil && !e.authed() {
		e.notices.Warning("Sign in to add items to your cart")
		return ErrNotAuthenticated
	}
	if e.stock != nil {
		if stock, known := e.stock(productID); known {
			if stock <= 0 {
				e.notices.Warning("Out of stock")
				return ErrOutOfStock
			}
			if quantity > stock {
				e.notices.Warning(fmt.Sprintf("Only %d in stock", stock))
				return ErrInsufficientStock
			}
		}
	}
	if !e.armAddGuard(productID) {
		return nil
	}

	var serverCart *shop.Cart
	err := e.cfg.Retry.do(ctx, func(ctx context.Context) error {
		c, err := e.api.AddItem(ctx, productID, quantity)
		if err != nil {
			return err
		}
		serverCart = c
		return nil
	})
	if err != nil {
		e.log.Warn("add to cart failed", zap.Int64("product_id", productID), zap.Error(err))
		e.notices.Error(syncFailureMessage(err))
		return err
	}

	e.store.MergeFromServer(serverCart, productID)
	e.saveBackup()
	e.notices.Success("Added to cart")
	return nil
}

// Remove drops a line locally and queues its backend removal. Duplicate
// calls before the first request completes collapse into one DELETE. Lines
// the backend never saw (no item id yet) are removed locally only.
func (e *Engine) Remove(productID int64) {
	line, ok := e.store.Line(productID)
	e.store.RemoveLine(productID)
	e.store.DiscardPending(productID)
	e.saveBackup()

	if !ok || line.ItemID == 0 {
		return
	}
	if !e.deletes.enqueue(productID, line.ItemID) {
		return
	}
	go e.deletes.drain(e.ctx, e.performDelete)
}

// performDelete issues one removal request. A 404 means the line was already
// gone server-side; the divergence is resolved with a full refetch instead
// of being treated as a failure. The server response always replaces local
// lines; its omission of the line is the success signal.
func (e *Engine) performDelete(ctx context.Context, entry deleteEntry) {
	var serverCart *shop.Cart
	err := e.cfg.Retry.do(ctx, func(ctx context.Context) error {
		c, err := e.api.RemoveItem(ctx, entry.itemID)
		if err != nil {
			return err
		}
		serverCart = c
		return nil
	})

	switch {
	case err == nil:
		e.store.ReplaceFromServer(serverCart)
		e.saveBackup()
		e.notices.Success("Removed from cart")
	case shop.IsNotFound(err):
		fetched, fetchErr := e.api.FetchCart(ctx)
		if fetchErr != nil {
			e.log.Warn("cart refetch after 404 failed", zap.Int64("item_id", entry.itemID), zap.Error(fetchErr))
			return
		}
		e.store.ReplaceFromServer(fetched)
		e.saveBackup()
	default:
		e.log.Warn("remove from cart failed", zap.Int64("item_id", entry.itemID), zap.Error(err))
		e.notices.Error(syncFailureMessage(err))
	}
}

// Refresh pulls the authoritative cart and replaces local state. Used on
// login and for reconciliation.
func (e *Engine) Refresh(ctx context.Context) error {
	serverCart, err := e.api.FetchCart(ctx)
	if err != nil {
		return fmt.Errorf("fetch cart: %w", err)
	}
	e.store.ReplaceFromServer(serverCart)
	e.saveBackup()
	return nil
}

// Reset clears local cart state and the backup. Called on logout.
func (e *Engine) Reset() {
	e.mu.Lock()
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
	e.mu.Unlock()
	e.store.Clear()
	if e.backup != nil {
		if err := e.backup.ClearCart(e.ctx); err != nil {
			e.log.Warn("clear cart backup failed", zap.Error(err))
		}
	}
}

// Syncing reports whether a bulk sync is currently in flight.
func (e *Engine) Syncing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncing
}

// armAddGuard reports whether an add for this product may proceed, and
// reserves the guard window if so.
func (e *Engine) armAddGuard(productID int64) bool {
	now := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	if last, ok := e.addGuard[productID]; ok && now.Sub(last) < e.cfg.AddGuard {
		return false
	}
	for id, t := range e.addGuard {
		if now.Sub(t) >= e.cfg.AddGuard {
			delete(e.addGuard, id)
		}
	}
	e.addGuard[productID] = now
	return true
}

func (e *Engine) saveBackup() {
	if e.backup == nil {
		return
	}
	if err := e.backup.SaveCart(e.ctx, e.store.Snapshot()); err != nil {
		e.log.Warn("cart backup failed", zap.Error(err))
	}
}

// syncFailureMessage maps an error to the user-facing toast text.
func syncFailureMessage(err error) string {
	switch {
	case shop.IsRateLimited(err):
		return "Too many requests; please wait a moment"
	case shop.IsUnauthorized(err):
		return "Session expired; please sign in again"
	case shop.IsValidation(err):
		return fmt.Sprintf("Request rejected: %v", err)
	default:
		return "Cart update failed; your changes are kept and will retry"
	}
}
