// Package ui provides the terminal user interface for trolley.
//
// # Architecture Overview
//
// The UI is built on Bubble Tea with Lipgloss styling. A single root Model
// holds all view state; data arrives via snapshot messages copied from the
// cart store, the catalog state store and the notice center on every poll
// tick. The UI never talks to the network directly: every mutating action
// goes through the cartsync engine, which owns debouncing, retries and the
// delete queue.
//
// # Package Structure
//
//   - app.go: Root model, message plumbing, key dispatch, Run
//   - header.go: Status bar and command bar
//   - cart.go: Basket view with quantity editing and removal
//   - products.go: Catalog view with stock badges and add-to-basket
//   - activity.go: Recent notice stream
//   - login.go: Sign-in modal built on bubbles/textinput
//   - theme.go, styles.go, layout.go: Theming and render helpers
//
// # Event Flow
//
//  1. Run() starts the Bubble Tea program in the alt screen
//  2. A tick message fires on the poll cadence and snapshots the stores
//  3. Key presses either mutate view state or issue a tea.Cmd that calls
//     into the sync engine off the render loop
//  4. Engine outcomes land in the notice center and the cart store; the
//     next snapshot makes them visible
//
// # Key Bindings
//
//   - p/b/n: Products, basket, activity views
//   - a or enter: Add selected product
//   - +/-: Adjust quantity (debounced sync)
//   - x: Remove selected line
//   - c: Checkout, forcing an immediate sync
//   - s/S: Sign in / sign out
//   - T: Cycle theme (persisted to prefs)
//   - h or ?: Help overlay
//   - e or ctrl+c: Quit
package ui
