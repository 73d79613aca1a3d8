package cartsync

import (
	"context"
	"time"

	"github.com/trolleydev/trolley/internal/shop"
)

// RetryPolicy bounds how often a failed backend call is reattempted.
// Attempts counts the initial try; the delay doubles after each failure.
type RetryPolicy struct {
	Attempts int
	Base     time.Duration
}

// DefaultRetryPolicy matches the storefront's behavior: one initial attempt
// plus five retries at 1s, 2s, 4s, 8s, 16s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 6, Base: time.Second}
}

// do runs fn until it succeeds, the attempt budget is spent, the error is
// not retryable, or the context is cancelled. The last error is returned.
func (p RetryPolicy) do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Base
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
	}
	return err
}

// retryable classifies errors per the storefront taxonomy: network faults
// and 5xx are worth retrying; 429 is a deliberate server signal, validation
// 4xx cannot succeed on retry, a surviving 401 means the token refresh
// already failed, and 404 is a state signal handled by the caller.
func retryable(err error) bool {
	switch {
	case shop.IsRateLimited(err),
		shop.IsValidation(err),
		shop.IsUnauthorized(err),
		shop.IsNotFound(err):
		return false
	}
	return true
}
