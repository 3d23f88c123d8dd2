package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

func TestNewFixedWindowLimiter(t *testing.T) {
	store := NewMemoryCounterStore(nil)

	_, err := NewFixedWindowLimiter(store, 0, time.Minute)
	assert.ErrorIs(t, err, ledgerDomain.ErrInvalidWindow)

	_, err = NewFixedWindowLimiter(store, 5, 500*time.Millisecond)
	assert.ErrorIs(t, err, ledgerDomain.ErrInvalidWindow)

	limiter, err := NewFixedWindowLimiter(store, 5, 90500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, limiter.Period())
	assert.Equal(t, int64(5), limiter.Limit())
}

func TestFixedWindowLimiter_Admit(t *testing.T) {
	ctx := context.Background()
	windowStart := time.Unix(1_800_000_000-1_800_000_000%60, 0).UTC()

	t.Run("FiveOfSevenAdmittedThenNextWindowResets", func(t *testing.T) {
		limiter, err := NewFixedWindowLimiter(NewMemoryCounterStore(nil), 5, time.Minute)
		require.NoError(t, err)

		var allowed []bool
		for i := range 7 {
			decision, err := limiter.Admit(ctx, "ip:10.0.0.1", windowStart.Add(time.Duration(i)*time.Second))
			require.NoError(t, err)
			allowed = append(allowed, decision.Allowed)
		}
		assert.Equal(t, []bool{true, true, true, true, true, false, false}, allowed)

		decision, err := limiter.Admit(ctx, "ip:10.0.0.1", windowStart.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, int64(1), decision.Count)
	})

	t.Run("DecisionFields", func(t *testing.T) {
		limiter, err := NewFixedWindowLimiter(NewMemoryCounterStore(nil), 2, time.Minute)
		require.NoError(t, err)
		now := windowStart.Add(10 * time.Second)

		first, err := limiter.Admit(ctx, "c", now)
		require.NoError(t, err)
		assert.Equal(t, &ledgerDomain.Decision{
			Allowed:   true,
			Count:     1,
			Limit:     2,
			Remaining: 1,
			ResetAt:   windowStart.Add(time.Minute),
		}, first)

		_, err = limiter.Admit(ctx, "c", now)
		require.NoError(t, err)
		third, err := limiter.Admit(ctx, "c", now)
		require.NoError(t, err)
		assert.False(t, third.Allowed)
		assert.Equal(t, int64(3), third.Count)
		assert.Equal(t, int64(0), third.Remaining)
	})

	t.Run("ClientsAreIndependent", func(t *testing.T) {
		limiter, err := NewFixedWindowLimiter(NewMemoryCounterStore(nil), 1, time.Minute)
		require.NoError(t, err)

		a, err := limiter.Admit(ctx, "a", windowStart)
		require.NoError(t, err)
		b, err := limiter.Admit(ctx, "b", windowStart)
		require.NoError(t, err)
		assert.True(t, a.Allowed)
		assert.True(t, b.Allowed)
	})

	t.Run("ConcurrentAdmitsDoNotUnderCount", func(t *testing.T) {
		limiter, err := NewFixedWindowLimiter(NewMemoryCounterStore(nil), 50, time.Minute)
		require.NoError(t, err)

		var admitted atomic.Int64
		var wg sync.WaitGroup
		for range 200 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				decision, err := limiter.Admit(ctx, "shared", windowStart)
				if err == nil && decision.Allowed {
					admitted.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(50), admitted.Load())
	})

	t.Run("StoreError", func(t *testing.T) {
		storeErr := errors.New("redis down")
		limiter, err := NewFixedWindowLimiter(failingStore{err: storeErr}, 5, time.Minute)
		require.NoError(t, err)

		_, err = limiter.Admit(ctx, "c", windowStart)
		assert.ErrorIs(t, err, storeErr)
	})
}

type failingStore struct {
	err error
}

func (f failingStore) Increment(context.Context, string, time.Time) (int64, error) {
	return 0, f.err
}
