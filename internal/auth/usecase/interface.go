// Package usecase implements the zero-trust gateway: token issuance, verification,
// static key checks and revocation.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// TokenRegistry tracks issued tokens for introspection and revocation.
type TokenRegistry interface {
	Store(ctx context.Context, claims *authDomain.Claims) error
	Get(ctx context.Context, tokenID string) (*authDomain.Claims, bool)
	Revoke(ctx context.Context, claims *authDomain.Claims) error
	IsRevoked(ctx context.Context, tokenID string) bool
	PurgeExpired(ctx context.Context, now time.Time) int
}

// GatewayUseCase defines the authentication and authorization operations of the gateway.
type GatewayUseCase interface {
	// IssueToken signs a token for subject with the given permissions. A non-positive TTL
	// selects the configured default. Returns ErrInvalidSubject for a blank subject.
	IssueToken(ctx context.Context, input *authDomain.IssueTokenInput) (*authDomain.IssueTokenOutput, error)

	// VerifyToken authenticates token and, when required is non-empty, checks that the
	// claims carry one of the required permissions.
	//
	// Errors: ErrMissingToken, ErrInvalidToken (also for revoked tokens), ErrExpiredToken,
	// ErrPermissionDenied.
	VerifyToken(
		ctx context.Context,
		token string,
		required ...authDomain.Permission,
	) (*authDomain.Claims, error)

	// VerifyStaticKey checks the administrative API key. Returns ErrInvalidStaticKey on mismatch.
	VerifyStaticKey(ctx context.Context, presented string) error

	// Introspect reports the claims of a token issued by this process that still verifies and
	// has not been revoked. Returns false for anything else.
	Introspect(ctx context.Context, token string) (*authDomain.Claims, bool)

	// Revoke invalidates a token that is otherwise still valid.
	Revoke(ctx context.Context, token string) error

	// PurgeExpired forgets tokens that can no longer verify.
	PurgeExpired(ctx context.Context) int
}
