package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	"github.com/allisson/gatekeeper/internal/metrics"
)

// gatewayUseCaseWithMetrics decorates GatewayUseCase with metrics instrumentation.
type gatewayUseCaseWithMetrics struct {
	next    GatewayUseCase
	metrics metrics.BusinessMetrics
}

// NewGatewayUseCaseWithMetrics wraps a GatewayUseCase with metrics recording.
func NewGatewayUseCaseWithMetrics(useCase GatewayUseCase, m metrics.BusinessMetrics) GatewayUseCase {
	return &gatewayUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (g *gatewayUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, g.metrics, metrics.DomainAuth, operation, start, err)
}

// IssueToken records metrics for token issuance.
func (g *gatewayUseCaseWithMetrics) IssueToken(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := g.next.IssueToken(ctx, input)
	g.record(ctx, "token_issue", start, err)
	return output, err
}

// VerifyToken records metrics for token verification.
func (g *gatewayUseCaseWithMetrics) VerifyToken(
	ctx context.Context,
	token string,
	required ...authDomain.Permission,
) (*authDomain.Claims, error) {
	start := time.Now()
	claims, err := g.next.VerifyToken(ctx, token, required...)
	g.record(ctx, "token_verify", start, err)
	return claims, err
}

// Introspect records metrics for token introspection. A token that is not active is
// reported as an error.
func (g *gatewayUseCaseWithMetrics) Introspect(ctx context.Context, token string) (*authDomain.Claims, bool) {
	start := time.Now()
	claims, active := g.next.Introspect(ctx, token)
	var err error
	if !active {
		err = authDomain.ErrInvalidToken
	}
	g.record(ctx, "token_introspect", start, err)
	return claims, active
}

// VerifyStaticKey records metrics for static key checks.
func (g *gatewayUseCaseWithMetrics) VerifyStaticKey(ctx context.Context, presented string) error {
	start := time.Now()
	err := g.next.VerifyStaticKey(ctx, presented)
	g.record(ctx, "static_key_verify", start, err)
	return err
}

// Revoke records metrics for token revocation.
func (g *gatewayUseCaseWithMetrics) Revoke(ctx context.Context, token string) error {
	start := time.Now()
	err := g.next.Revoke(ctx, token)
	g.record(ctx, "token_revoke", start, err)
	return err
}

// PurgeExpired records metrics for registry purges.
func (g *gatewayUseCaseWithMetrics) PurgeExpired(ctx context.Context) int {
	start := time.Now()
	n := g.next.PurgeExpired(ctx)
	g.record(ctx, "token_purge", start, nil)
	return n
}
