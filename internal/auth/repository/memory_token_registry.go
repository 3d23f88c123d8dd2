// Package repository provides storage for issued token claims.
package repository

import (
	"context"
	"sync"
	"time"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

type registryEntry struct {
	claims  *authDomain.Claims
	revoked bool
}

// MemoryTokenRegistry keeps issued claims by token ID in process memory. Entries are lost
// on restart; the signature and expiry checks never depend on the registry.
type MemoryTokenRegistry struct {
	entries sync.Map // map[string]*registryEntry
	mu      sync.Mutex
}

// NewMemoryTokenRegistry creates an empty registry.
func NewMemoryTokenRegistry() *MemoryTokenRegistry {
	return &MemoryTokenRegistry{}
}

// Store records the claims of a freshly issued token.
func (r *MemoryTokenRegistry) Store(_ context.Context, claims *authDomain.Claims) error {
	r.entries.Store(claims.ID, &registryEntry{claims: claims})
	return nil
}

// Get returns the claims recorded for tokenID.
func (r *MemoryTokenRegistry) Get(_ context.Context, tokenID string) (*authDomain.Claims, bool) {
	value, ok := r.entries.Load(tokenID)
	if !ok {
		return nil, false
	}
	return value.(*registryEntry).claims, true
}

// Revoke marks tokenID revoked. Unknown IDs are recorded so tokens issued before a
// restart can still be revoked until they expire.
func (r *MemoryTokenRegistry) Revoke(_ context.Context, claims *authDomain.Claims) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := r.entries.Load(claims.ID)
	if !ok {
		r.entries.Store(claims.ID, &registryEntry{claims: claims, revoked: true})
		return nil
	}
	entry := value.(*registryEntry)
	r.entries.Store(claims.ID, &registryEntry{claims: entry.claims, revoked: true})
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (r *MemoryTokenRegistry) IsRevoked(_ context.Context, tokenID string) bool {
	value, ok := r.entries.Load(tokenID)
	if !ok {
		return false
	}
	return value.(*registryEntry).revoked
}

// PurgeExpired drops entries whose tokens expired before now and returns how many.
func (r *MemoryTokenRegistry) PurgeExpired(_ context.Context, now time.Time) int {
	purged := 0
	r.entries.Range(func(key, value any) bool {
		if value.(*registryEntry).claims.IsExpired(now) {
			r.entries.Delete(key)
			purged++
		}
		return true
	})
	return purged
}

// Len returns the number of tracked tokens.
func (r *MemoryTokenRegistry) Len() int {
	n := 0
	r.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
