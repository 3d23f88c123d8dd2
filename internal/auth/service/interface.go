// Package service provides the token codec and credential checks used by the gateway.
package service

import (
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// TokenCodec signs and verifies claims tokens.
// Implementations must reject any algorithm other than the one they sign with.
type TokenCodec interface {
	// Sign serializes and signs claims.
	Sign(claims *authDomain.Claims) (string, error)

	// Verify checks signature, issuer and expiry and returns the claims.
	// Returns ErrExpiredToken for expired tokens and ErrInvalidToken otherwise.
	Verify(token string) (*authDomain.Claims, error)
}

// StaticKeyVerifier checks the administrative API key.
type StaticKeyVerifier interface {
	// Verify reports whether presented matches the configured key. Constant-time.
	Verify(presented string) bool
}
