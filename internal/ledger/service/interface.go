// Package service implements the fixed-window rate limiter and its counter stores.
package service

import (
	"context"
	"time"

	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

// CounterStore holds the per-window request counters.
type CounterStore interface {
	// Increment atomically adds one to key and returns the new count. The counter may be
	// discarded once expiresAt has passed.
	Increment(ctx context.Context, key string, expiresAt time.Time) (int64, error)
}

// RateLimiter admits or rejects requests of a client.
type RateLimiter interface {
	// Admit counts one request of clientID at now and reports whether it fits the window.
	Admit(ctx context.Context, clientID string, now time.Time) (*ledgerDomain.Decision, error)
}
