package service

import (
	"context"
	"sync"
	"time"
)

type counterEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryCounterStore keeps window counters in process memory. A restart resets every
// counter. Expired counters are dropped by Run.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*counterEntry
	now      func() time.Time
}

// NewMemoryCounterStore creates an empty store. A nil now uses time.Now.
func NewMemoryCounterStore(now func() time.Time) *MemoryCounterStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryCounterStore{
		counters: make(map[string]*counterEntry),
		now:      now,
	}
}

// Increment adds one to key under the store lock.
func (m *MemoryCounterStore) Increment(_ context.Context, key string, expiresAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.counters[key]
	if !ok {
		entry = &counterEntry{expiresAt: expiresAt}
		m.counters[key] = entry
	}
	entry.count++
	return entry.count, nil
}

// Run removes expired counters every interval until ctx is done.
func (m *MemoryCounterStore) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.RemoveExpired(m.now())
		}
	}
}

// RemoveExpired deletes counters whose window ended at or before now and returns how many.
func (m *MemoryCounterStore) RemoveExpired(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.counters {
		if !entry.expiresAt.After(now) {
			delete(m.counters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live counters.
func (m *MemoryCounterStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counters)
}
