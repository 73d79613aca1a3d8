package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trolleydev/trolley/internal/shop"
	"github.com/trolleydev/trolley/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// StartPoller launches a background goroutine that refreshes the catalog at a
// fixed cadence, widening the interval while the API is unreachable. It
// returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client *shop.Client, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	go func() {
		for {
			refresh(ctx, store, client, log)

			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}()
}

// calculateBackoff doubles the poll interval per consecutive failure, capped
// at maxBackoff, so an unreachable storefront isn't hammered.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, client *shop.Client, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	products, err := client.FetchProducts(ctx)
	if err != nil {
		store.Update(nil, err)
		log.Warn("catalog poll failed", zap.Error(err))
		return
	}
	store.Update(products, nil)
}
