package domain

import (
	"slices"
	"strings"
	"time"
)

// Claims is the signed payload of a token. Claims are immutable once signed.
type Claims struct {
	ID          string
	Subject     string
	Permissions []Permission
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Issuer      string
}

// HasPermission reports whether p is listed in the claims. Matching is exact.
func (c *Claims) HasPermission(p Permission) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Permissions, p)
}

// IsExpired reports whether the claims are past expiry at now.
func (c *Claims) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// PermissionStrings returns the permissions as plain strings.
func (c *Claims) PermissionStrings() []string {
	out := make([]string, 0, len(c.Permissions))
	for _, p := range c.Permissions {
		out = append(out, string(p))
	}
	return out
}

// RequirePermission returns nil when the claims carry any of perms and
// ErrPermissionDenied otherwise. An empty perms list only requires valid claims.
func RequirePermission(claims *Claims, perms ...Permission) error {
	if claims == nil {
		return ErrPermissionDenied
	}
	if len(perms) == 0 {
		return nil
	}
	for _, p := range perms {
		if claims.HasPermission(p) {
			return nil
		}
	}
	return ErrPermissionDenied
}

// NormalizePermissions trims, drops empties, deduplicates and sorts.
func NormalizePermissions(perms []string) []Permission {
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, Permission(p))
	}
	slices.Sort(out)
	return slices.Compact(out)
}
