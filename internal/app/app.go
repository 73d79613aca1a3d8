package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/trolleydev/trolley/internal/backup"
	"github.com/trolleydev/trolley/internal/cart"
	"github.com/trolleydev/trolley/internal/cartsync"
	"github.com/trolleydev/trolley/internal/config"
	"github.com/trolleydev/trolley/internal/notify"
	"github.com/trolleydev/trolley/internal/prefs"
	"github.com/trolleydev/trolley/internal/session"
	"github.com/trolleydev/trolley/internal/shop"
	"github.com/trolleydev/trolley/internal/state"
	"github.com/trolleydev/trolley/internal/ui"
)

// Options configure the trolley application.
type Options struct {
	ConfigPath  string
	SessionPath string // empty uses default ~/.config/trolley/session.toml
	PrefsPath   string // empty uses default ~/.config/trolley/prefs.toml
	PollEvery   int    // seconds; zero uses the config value
}

// Runtime holds the wired application components. The TUI and the headless
// subcommands share the same bootstrap so their behavior never diverges.
type Runtime struct {
	Config  config.Config
	Session *session.Session
	Client  *shop.Client
	Cart    *cart.Store
	Backup  *backup.Store
	Notices *notify.Center
	Catalog *state.Store
	Engine  *cartsync.Engine
	Logger  *zap.Logger
}

// Bootstrap loads config and session state and wires the client, stores and
// sync engine together.
func Bootstrap(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	sess, err := session.Load(opts.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	notices := notify.New(logger)

	client, err := shop.NewClient(cfg.APIBase, shop.Options{
		Credentials: sess,
		Timeout:     cfg.RequestTimeout,
		OnAuthExpired: func() {
			notices.Warning("Session expired; please sign in again")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init shop client: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	backupStore, err := backup.Open(cfg.BackupPath())
	if err != nil {
		return nil, fmt.Errorf("open cart backup: %w", err)
	}

	cartStore := cart.NewStore()
	catalog := &state.Store{}

	engine, err := cartsync.New(cartsync.Options{
		Context:       ctx,
		Store:         cartStore,
		Backend:       client,
		Backup:        backupStore,
		Notices:       notices,
		Logger:        logger,
		Stock:         catalog.Stock,
		Authenticated: sess.Authenticated,
		Config: cartsync.Config{
			Debounce: cfg.Debounce,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init sync engine: %w", err)
	}

	return &Runtime{
		Config:  cfg,
		Session: sess,
		Client:  client,
		Cart:    cartStore,
		Backup:  backupStore,
		Notices: notices,
		Catalog: catalog,
		Engine:  engine,
		Logger:  logger,
	}, nil
}

// Close releases the runtime's resources.
func (r *Runtime) Close() {
	if r.Backup != nil {
		_ = r.Backup.Close()
	}
	if r.Logger != nil {
		_ = r.Logger.Sync()
	}
}

// Run boots the trolley TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := Bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	interval := rt.Config.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background catalog poller
	StartPoller(ctx, rt.Catalog, rt.Client, interval, rt.Logger)

	// Populate the cart before the UI starts. The backend is authoritative;
	// the local backup only fills in when the fetch is unavailable.
	rt.RestoreCart(ctx)

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    rt.Client,
		Cart:      rt.Cart,
		Catalog:   rt.Catalog,
		Engine:    rt.Engine,
		Notices:   rt.Notices,
		Session:   rt.Session,
		PollTick:  time.Second,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// RestoreCart seeds the local cart store at startup: from the backend when
// signed in and reachable, otherwise from the local backup snapshot. Pending
// edits found in the backup survive a successful fetch; a crash between a
// quantity edit and its sync leaves them only in the backup, so they are
// re-staged for the next sync instead of being dropped.
func (r *Runtime) RestoreCart(ctx context.Context) {
	if !r.Session.Authenticated() {
		return
	}
	// Read the backup before the refresh: a successful refresh persists the
	// fresh snapshot and would wipe the crash-left pending entries.
	snap, backupErr := r.Backup.LoadCart(ctx)
	if backupErr != nil && !errors.Is(backupErr, backup.ErrNoBackup) {
		r.Logger.Warn("load cart backup failed", zap.Error(backupErr))
	}

	if err := r.Engine.Refresh(ctx); err != nil {
		if backupErr != nil {
			return
		}
		r.Cart.Restore(snap)
		r.Notices.Info("Showing locally saved cart; reconnecting...")
		return
	}
	if backupErr != nil {
		return
	}

	restaged := 0
	for productID, qty := range snap.Pending {
		if line, ok := r.Cart.Line(productID); ok && line.Quantity == qty {
			continue
		}
		r.Engine.UpdateWithDebounce(productID, qty)
		restaged++
	}
	if restaged > 0 {
		r.Notices.Info("Recovered unsynced cart changes; syncing")
	}
}

// newLogger builds a file logger under the data dir. The TUI owns the
// terminal, so nothing may write to stdout or stderr.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{cfg.LogPath()}
	zcfg.ErrorOutputPaths = []string{cfg.LogPath()}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
