package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

// ledgerUseCase implements LedgerUseCase.
type ledgerUseCase struct {
	txManager database.TxManager
	auditRepo AuditEntryRepository
	usageRepo UsageAggregateRepository
	now       func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase. A nil now uses time.Now.
func NewLedgerUseCase(
	txManager database.TxManager,
	auditRepo AuditEntryRepository,
	usageRepo UsageAggregateRepository,
	now func() time.Time,
) LedgerUseCase {
	if now == nil {
		now = time.Now
	}
	return &ledgerUseCase{
		txManager: txManager,
		auditRepo: auditRepo,
		usageRepo: usageRepo,
		now:       now,
	}
}

// Record appends the entry and upserts the matching aggregate. Either both writes commit
// or neither does.
func (l *ledgerUseCase) Record(ctx context.Context, entry *ledgerDomain.AuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.Must(uuid.NewV7())
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	return l.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := l.auditRepo.Create(ctx, entry); err != nil {
			return apperrors.Wrap(err, "failed to append audit entry")
		}
		if err := l.usageRepo.Increment(
			ctx,
			ledgerDomain.UsageDate(entry.Timestamp),
			entry.ClientID,
			entry.Endpoint,
			entry.ResponseTimeMs,
		); err != nil {
			return apperrors.Wrap(err, "failed to increment usage aggregate")
		}
		return nil
	})
}

// QueryOverview loads the aggregates of the day and folds them.
func (l *ledgerUseCase) QueryOverview(
	ctx context.Context,
	date time.Time,
	topN int,
) (*ledgerDomain.Overview, error) {
	day := ledgerDomain.UsageDate(date)

	aggregates, err := l.usageRepo.ListByDate(ctx, day)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load usage aggregates")
	}
	return ledgerDomain.BuildOverview(day, aggregates, topN), nil
}

// QueryLogs returns the newest entries.
func (l *ledgerUseCase) QueryLogs(ctx context.Context, limit int) ([]*ledgerDomain.AuditEntry, error) {
	entries, err := l.auditRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	return entries, nil
}

// PurgeLogs removes audit entries older than the retention window.
func (l *ledgerUseCase) PurgeLogs(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	if olderThan < 0 {
		return 0, ledgerDomain.ErrInvalidRetention
	}
	cutoff := l.now().UTC().Add(-olderThan)

	if dryRun {
		count, err := l.auditRepo.CountOlderThan(ctx, cutoff)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit entries")
		}
		return count, nil
	}

	count, err := l.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit entries")
	}
	return count, nil
}
