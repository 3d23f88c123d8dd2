package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	"github.com/allisson/gatekeeper/internal/metrics"
	secretsDomain "github.com/allisson/gatekeeper/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, s.metrics, metrics.DomainSecrets, operation, start, err)
}

// Create records metrics for secret creation.
func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	actor *authDomain.Claims,
	input *secretsDomain.CreateSecretInput,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, actor, input)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

// Get records metrics for secret retrieval.
func (s *secretUseCaseWithMetrics) Get(
	ctx context.Context,
	actor *authDomain.Claims,
	name string,
	decrypt bool,
) (*secretsDomain.SecretView, error) {
	start := time.Now()
	view, err := s.next.Get(ctx, actor, name, decrypt)
	s.record(ctx, "secret_get", start, err)
	return view, err
}

// Rotate records metrics for secret rotation.
func (s *secretUseCaseWithMetrics) Rotate(
	ctx context.Context,
	actor *authDomain.Claims,
	name string,
	newValue []byte,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Rotate(ctx, actor, name, newValue)
	s.record(ctx, "secret_rotate", start, err)
	return secret, err
}

// List records metrics for secret listing.
func (s *secretUseCaseWithMetrics) List(
	ctx context.Context,
	actor *authDomain.Claims,
	offset, limit int,
) ([]*secretsDomain.SecretView, error) {
	start := time.Now()
	views, err := s.next.List(ctx, actor, offset, limit)
	s.record(ctx, "secret_list", start, err)
	return views, err
}
