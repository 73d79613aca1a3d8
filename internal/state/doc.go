// Package state provides thread-safe catalog state for the trolley client.
//
// # Overview
//
// This package implements a simple but thread-safe store for sharing the
// product catalog between the background poller and the UI. It acts as the
// coordination point where polling updates meet UI rendering, and it is the
// source the sync engine consults for stock checks.
//
// # Architecture
//
// The package follows a producer-consumer pattern:
//
//	Producer (Poller):             Consumers (UI, sync engine):
//	┌────────────────┐            ┌─────────────────┐
//	│ FetchProducts()│            │                 │
//	│      ↓         │            │ store.Snapshot()│
//	│ store.Update() │───────────→│ store.Stock()   │
//	│      ↓         │  (mutex)   │      ↓          │
//	│  repeat...     │            │  render / clamp │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
// On success the whole snapshot is replaced and the failure counter resets.
// On error the previous products are kept so the UI always has the most
// recent successful data, while LastError and ConsecutiveFailures record the
// outage. IsOffline reports true after two consecutive failures, which the
// UI surfaces as an offline banner.
//
// # Concurrency Model
//
// A readers-writer lock with a single writer (the poller) and multiple
// readers (UI refresh loop, stock checks). The lock is held only during copy
// operations, never during network I/O or rendering. Both Update and
// Snapshot copy the product slice so no caller shares mutable state.
//
// The zero value Store is ready to use; Snapshot returns a zero Snapshot
// until the first Update.
package state
