package cartsync

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// deleteEntry pins the backend line identity at enqueue time, before the
// optimistic local removal makes it unavailable.
type deleteEntry struct {
	productID int64
	itemID    int64
}

// deleteQueue serializes removal requests: a dedup set keyed by productID
// plus a FIFO pending list, drained with at most maxConcurrentDeletes
// requests in flight. Submission order is FIFO; completion order is not
// guaranteed.
type deleteQueue struct {
	mu     sync.Mutex
	queued map[int64]struct{}
	order  []deleteEntry
	sem    *semaphore.Weighted
}

func newDeleteQueue(maxInFlight int64) *deleteQueue {
	if maxInFlight <= 0 {
		maxInFlight = 3
	}
	return &deleteQueue{
		queued: make(map[int64]struct{}),
		sem:    semaphore.NewWeighted(maxInFlight),
	}
}

// enqueue adds a product to the queue. It reports false when the product is
// already queued or in flight, so duplicate rapid removals collapse into a
// single request.
func (q *deleteQueue) enqueue(productID, itemID int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.queued[productID]; exists {
		return false
	}
	q.queued[productID] = struct{}{}
	q.order = append(q.order, deleteEntry{productID: productID, itemID: itemID})
	return true
}

// next pops the oldest pending entry. The product stays in the dedup set
// until finish is called, so re-enqueueing mid-request is still a no-op.
func (q *deleteQueue) next() (deleteEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.order) == 0 {
		return deleteEntry{}, false
	}
	entry := q.order[0]
	q.order = q.order[1:]
	return entry, true
}

// finish releases the dedup reservation after the request completed.
func (q *deleteQueue) finish(productID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.queued, productID)
}

// drain pulls pending entries and runs handle for each, bounded by the
// semaphore. Multiple drainers may race; losers simply find the list empty.
func (q *deleteQueue) drain(ctx context.Context, handle func(ctx context.Context, entry deleteEntry)) {
	for {
		entry, ok := q.next()
		if !ok {
			return
		}
		if err := q.sem.Acquire(ctx, 1); err != nil {
			q.finish(entry.productID)
			return
		}
		go func(entry deleteEntry) {
			defer q.sem.Release(1)
			defer q.finish(entry.productID)
			handle(ctx, entry)
		}(entry)
	}
}
