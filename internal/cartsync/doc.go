// Package cartsync reconciles the local optimistic cart against the
// storefront backend.
//
// # Overview
//
// The engine owns four cooperating mechanisms:
//
//   - a debounced updater: quantity edits are staged in the cart store's
//     pending map immediately and synced after a 300ms quiet window, so a
//     burst of edits becomes one backend round trip
//   - a delta sync: only pending entries that differ from the last
//     successfully sent value are included in the bulk-update payload
//   - bounded retries: failed requests back off exponentially (1s through
//     16s) for at most six total attempts; on exhaustion the pending map is
//     left intact for a later pass
//   - a delete queue: removals are deduplicated per product and processed
//     with at most three requests in flight
//
// # Single-flight semantics
//
// SyncPending never overlaps itself: a call arriving while a sync is in
// flight returns false immediately. Edits made during the flight are not
// lost: they survive the wholesale pending-map replacement on success and
// are drained by a recheck pass scheduled shortly after. If the in-flight
// sync fails, no recheck fires; the surviving entries ride along with the
// next debounce-triggered or forced sync.
//
// # Server authority
//
// Every successful cart response replaces local line state. Add and update
// responses are merged instead of replaced for products with in-progress
// local edits, so an unrelated pending change does not visibly snap back.
// Delete responses always replace: the server omitting the line is the
// success signal.
package cartsync
