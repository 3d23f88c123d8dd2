package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// gatewayUseCase implements GatewayUseCase.
type gatewayUseCase struct {
	codec      authService.TokenCodec
	staticKey  authService.StaticKeyVerifier
	registry   TokenRegistry
	defaultTTL time.Duration
	now        func() time.Time
}

// NewGatewayUseCase creates a new GatewayUseCase. now is the clock for issued-at stamps and
// purges; nil selects time.Now.
func NewGatewayUseCase(
	codec authService.TokenCodec,
	staticKey authService.StaticKeyVerifier,
	registry TokenRegistry,
	defaultTTL time.Duration,
	now func() time.Time,
) GatewayUseCase {
	if defaultTTL <= 0 {
		defaultTTL = authDomain.DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &gatewayUseCase{
		codec:      codec,
		staticKey:  staticKey,
		registry:   registry,
		defaultTTL: defaultTTL,
		now:        now,
	}
}

// IssueToken signs a new token. Timestamps are truncated to whole seconds, the precision
// of the wire format, so the returned claims equal what Verify later reports.
func (g *gatewayUseCase) IssueToken(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, authDomain.ErrInvalidSubject
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = g.defaultTTL
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token id")
	}

	issuedAt := g.now().UTC().Truncate(time.Second)
	claims := &authDomain.Claims{
		ID:          id.String(),
		Subject:     subject,
		Permissions: authDomain.NormalizePermissions(input.Permissions),
		IssuedAt:    issuedAt,
		ExpiresAt:   issuedAt.Add(ttl),
		Issuer:      authDomain.Issuer,
	}

	token, err := g.codec.Sign(claims)
	if err != nil {
		return nil, err
	}

	if err := g.registry.Store(ctx, claims); err != nil {
		return nil, apperrors.Wrap(err, "failed to register token")
	}

	return &authDomain.IssueTokenOutput{Token: token, Claims: claims}, nil
}

// VerifyToken authenticates token, rejects revoked tokens and enforces required.
func (g *gatewayUseCase) VerifyToken(
	ctx context.Context,
	token string,
	required ...authDomain.Permission,
) (*authDomain.Claims, error) {
	if token == "" {
		return nil, authDomain.ErrMissingToken
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	if g.registry.IsRevoked(ctx, claims.ID) {
		return nil, authDomain.ErrInvalidToken
	}

	if err := authDomain.RequirePermission(claims, required...); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyStaticKey checks the administrative API key.
func (g *gatewayUseCase) VerifyStaticKey(_ context.Context, presented string) error {
	if !g.staticKey.Verify(presented) {
		return authDomain.ErrInvalidStaticKey
	}
	return nil
}

// Introspect returns the registered claims of a live token.
func (g *gatewayUseCase) Introspect(ctx context.Context, token string) (*authDomain.Claims, bool) {
	claims, err := g.VerifyToken(ctx, token)
	if err != nil {
		return nil, false
	}
	return g.registry.Get(ctx, claims.ID)
}

// Revoke verifies token and marks it revoked so later verifications fail.
func (g *gatewayUseCase) Revoke(ctx context.Context, token string) error {
	claims, err := g.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	return g.registry.Revoke(ctx, claims)
}

// PurgeExpired forgets expired tokens.
func (g *gatewayUseCase) PurgeExpired(ctx context.Context) int {
	return g.registry.PurgeExpired(ctx, g.now())
}
