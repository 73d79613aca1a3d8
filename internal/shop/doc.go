// Package shop provides the HTTP client for the storefront REST API.
//
// # Overview
//
// The package defines the API client used by the cart sync engine, the
// background poller and the CLI commands. It handles HTTP communication,
// JSON serialization, typed API errors, and transparent access-token
// refresh.
//
// # Architecture
//
// The package is split into four files:
//
//   - client.go: request building and the typed endpoint methods
//   - transport.go: bearer/CSRF injection and the 401→refresh state machine
//   - types.go: data structures mirroring the storefront API schema
//   - errors.go: *APIError and status predicates (IsNotFound, IsRateLimited, ...)
//
// # Endpoints
//
//   - GET    /api/cart/              full cart state
//   - POST   /api/cart/add/          add a product
//   - PUT    /api/cart/items/{id}/   set a line's quantity
//   - DELETE /api/cart/items/{id}/   remove a line
//   - POST   /api/cart/bulk-update/  batch quantity delta
//   - GET    /api/products/          catalog listing
//   - POST   /api/auth/login/        credential exchange
//   - POST   /api/auth/refresh/      cookie-authenticated token refresh
//
// Every cart endpoint returns the server's full cart representation; the
// server is the source of truth and callers reconcile local state from the
// response.
//
// # Token refresh
//
// A 401 from a non-auth endpoint flips the transport into its refreshing
// state. Exactly one refresh call is issued; requests that 401 while it is
// in flight are parked on a waiter queue and replayed in arrival order with
// the new token. If the refresh itself fails, all parked requests are
// rejected, credentials are cleared, and the auth-expired hook fires.
package shop
