// Package backup persists a copy of the cart to a local SQLite database.
// The backup is a crash-recovery hint only: it is written on every mutating
// cart call, restored when the authoritative fetch is unavailable, and
// cleared on logout. It is never the source of truth.
package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trolleydev/trolley/internal/cart"
)

// ErrNoBackup reports that no snapshot exists for the requested namespace.
var ErrNoBackup = errors.New("backup: no snapshot")

const cartNamespace = "cart"

// Store wraps the SQLite snapshot table. Snapshots are namespaced per
// logical concern so future concerns don't collide with the cart's.
type Store struct {
	db *sql.DB
}

// Open creates or opens the backup database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open backup db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		namespace  TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCart stores the cart snapshot, replacing any previous one.
func (s *Store) SaveCart(ctx context.Context, snap cart.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO snapshots (namespace, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		cartNamespace, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write cart snapshot: %w", err)
	}
	return nil
}

// LoadCart returns the stored cart snapshot, or ErrNoBackup.
func (s *Store) LoadCart(ctx context.Context) (cart.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE namespace = ?`, cartNamespace).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return cart.Snapshot{}, ErrNoBackup
	}
	if err != nil {
		return cart.Snapshot{}, fmt.Errorf("read cart snapshot: %w", err)
	}
	var snap cart.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return cart.Snapshot{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return snap, nil
}

// ClearCart removes the cart snapshot.
func (s *Store) ClearCart(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE namespace = ?`, cartNamespace); err != nil {
		return fmt.Errorf("clear cart snapshot: %w", err)
	}
	return nil
}
