package usecase

import (
	"context"
	"time"

	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
	"github.com/allisson/gatekeeper/internal/metrics"
)

// ledgerUseCaseWithMetrics decorates LedgerUseCase with metrics instrumentation.
type ledgerUseCaseWithMetrics struct {
	next    LedgerUseCase
	metrics metrics.BusinessMetrics
}

// NewLedgerUseCaseWithMetrics wraps a LedgerUseCase with metrics recording.
func NewLedgerUseCaseWithMetrics(useCase LedgerUseCase, m metrics.BusinessMetrics) LedgerUseCase {
	return &ledgerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (l *ledgerUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, l.metrics, metrics.DomainLedger, operation, start, err)
}

// Record records metrics for audit entry recording.
func (l *ledgerUseCaseWithMetrics) Record(ctx context.Context, entry *ledgerDomain.AuditEntry) error {
	start := time.Now()
	err := l.next.Record(ctx, entry)
	l.record(ctx, "audit_record", start, err)
	return err
}

// QueryOverview records metrics for overview queries.
func (l *ledgerUseCaseWithMetrics) QueryOverview(
	ctx context.Context,
	date time.Time,
	topN int,
) (*ledgerDomain.Overview, error) {
	start := time.Now()
	overview, err := l.next.QueryOverview(ctx, date, topN)
	l.record(ctx, "usage_overview", start, err)
	return overview, err
}

// QueryLogs records metrics for audit log queries.
func (l *ledgerUseCaseWithMetrics) QueryLogs(ctx context.Context, limit int) ([]*ledgerDomain.AuditEntry, error) {
	start := time.Now()
	entries, err := l.next.QueryLogs(ctx, limit)
	l.record(ctx, "audit_list", start, err)
	return entries, err
}

// PurgeLogs records metrics for audit log purges.
func (l *ledgerUseCaseWithMetrics) PurgeLogs(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := l.next.PurgeLogs(ctx, olderThan, dryRun)
	l.record(ctx, "audit_purge", start, err)
	return count, err
}
