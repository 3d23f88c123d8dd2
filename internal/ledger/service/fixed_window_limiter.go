package service

import (
	"context"
	"time"

	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

// FixedWindowLimiter counts requests per client in aligned windows of period. Bursts
// across a window boundary are allowed.
type FixedWindowLimiter struct {
	store  CounterStore
	limit  int64
	period time.Duration
}

// NewFixedWindowLimiter creates a limiter admitting at most limit requests per period.
// The period is truncated to whole seconds and must be at least one second.
func NewFixedWindowLimiter(store CounterStore, limit int64, period time.Duration) (*FixedWindowLimiter, error) {
	period = period.Truncate(time.Second)
	if limit <= 0 || period < time.Second {
		return nil, ledgerDomain.ErrInvalidWindow
	}
	return &FixedWindowLimiter{
		store:  store,
		limit:  limit,
		period: period,
	}, nil
}

// Admit increments the counter of (clientID, window of now) and rejects once the
// post-increment count exceeds the limit.
func (f *FixedWindowLimiter) Admit(
	ctx context.Context,
	clientID string,
	now time.Time,
) (*ledgerDomain.Decision, error) {
	index := ledgerDomain.WindowIndex(now, f.period)
	resetAt := ledgerDomain.WindowEnd(now, f.period)

	count, err := f.store.Increment(ctx, ledgerDomain.WindowKey(clientID, index), resetAt)
	if err != nil {
		return nil, err
	}

	remaining := f.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &ledgerDomain.Decision{
		Allowed:   count <= f.limit,
		Count:     count,
		Limit:     f.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Limit returns the maximum number of requests per window.
func (f *FixedWindowLimiter) Limit() int64 {
	return f.limit
}

// Period returns the window length.
func (f *FixedWindowLimiter) Period() time.Duration {
	return f.period
}
