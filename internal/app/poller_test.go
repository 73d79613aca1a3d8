package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/trolleydev/trolley/internal/shop"
	"github.com/trolleydev/trolley/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	base := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, maxBackoff},
		{"many failures capped", 10, maxBackoff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, base)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, base, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, 30*time.Second)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d) = %v, exceeds cap %v", failures, got, maxBackoff)
		}
	}
}

func TestRefresh_UpdatesStoreOnSuccessAndFailure(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(shop.ProductListResponse{
			Items: []shop.Product{{ID: 1, Name: "Mug", Stock: 4}},
		})
	}))
	t.Cleanup(server.Close)

	client, err := shop.NewClient(server.URL, shop.Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	store := &state.Store{}

	refresh(context.Background(), store, client, nil)
	snap := store.Snapshot()
	if !snap.HasProducts || len(snap.Products) != 1 {
		t.Fatalf("snapshot after success = %#v", snap)
	}

	fail.Store(true)
	refresh(context.Background(), store, client, nil)
	snap = store.Snapshot()
	if snap.LastError == nil || snap.ConsecutiveFailures != 1 {
		t.Fatalf("snapshot after failure = %#v, want recorded error", snap)
	}
	if len(snap.Products) != 1 {
		t.Fatal("products dropped on poll failure")
	}
}

func TestStartPoller_StopsOnContextCancel(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(shop.ProductListResponse{})
	}))
	t.Cleanup(server.Close)

	client, err := shop.NewClient(server.URL, shop.Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	store := &state.Store{}

	ctx, cancel := context.WithCancel(context.Background())
	StartPoller(ctx, store, client, 10*time.Millisecond, nil)

	deadline := time.Now().Add(time.Second)
	for hits.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hits.Load() < 2 {
		t.Fatal("poller never polled repeatedly")
	}

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := hits.Load()
	time.Sleep(50 * time.Millisecond)
	if hits.Load() != settled {
		t.Fatal("poller kept polling after context cancellation")
	}
}
