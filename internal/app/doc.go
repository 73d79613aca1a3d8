// Package app provides the orchestration layer for the trolley client.
//
// # Overview
//
// This package wires together configuration, session state, the storefront
// HTTP client, the local cart store and backup, the cart sync engine, the
// catalog poller and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Architecture
//
// Bootstrap follows a simple initialization pattern:
//
//  1. Load config from ~/.config/trolley/config.toml
//  2. Open the file logger under the data dir (the TUI owns the terminal)
//  3. Load the persisted session (refresh and CSRF tokens)
//  4. Create the HTTP client with the auth-refreshing transport
//  5. Open the SQLite cart backup under the data dir
//  6. Build the cart store, catalog store, notice center and sync engine
//
// Run then starts the background catalog poller, seeds the cart (backend
// first, local backup as fallback) and blocks in the TUI until the user
// exits or the context cancels.
//
// The headless subcommands (sync, cart) reuse Bootstrap so their wiring is
// identical to the TUI's.
//
// # Error Handling
//
// Bootstrap errors are fatal: bad config, unreadable session file, backup
// database failure. Everything after startup is recoverable: poll failures
// are recorded in the state store and retried, cart sync failures keep the
// pending edits for a later attempt, and a failed initial fetch falls back
// to the locally saved cart.
package app
