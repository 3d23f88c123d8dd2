// Package usecase implements the request accounting ledger: audit entry recording with
// daily usage aggregation, analytics queries and audit log retention.
package usecase

import (
	"context"
	"time"

	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

// AuditEntryRepository defines the interface for AuditEntry persistence operations.
type AuditEntryRepository interface {
	// Create appends entry.
	Create(ctx context.Context, entry *ledgerDomain.AuditEntry) error
	// ListRecent returns at most limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]*ledgerDomain.AuditEntry, error)
	// CountOlderThan counts entries with a timestamp before cutoff.
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// DeleteOlderThan removes entries with a timestamp before cutoff and returns how many.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// UsageAggregateRepository defines the interface for UsageAggregate persistence operations.
type UsageAggregateRepository interface {
	// Increment creates the (date, client, endpoint) row with a count of one, or adds one
	// request and responseTimeMs to the existing row.
	Increment(ctx context.Context, date time.Time, clientID, endpoint string, responseTimeMs int64) error
	// ListByDate returns every aggregate of date.
	ListByDate(ctx context.Context, date time.Time) ([]*ledgerDomain.UsageAggregate, error)
}

// LedgerUseCase defines the accounting and analytics operations.
type LedgerUseCase interface {
	// Record appends entry and increments its usage aggregate in one transaction.
	// A zero ID or Timestamp is filled in.
	Record(ctx context.Context, entry *ledgerDomain.AuditEntry) error

	// QueryOverview summarizes the UTC day of date with at most topN endpoints.
	QueryOverview(ctx context.Context, date time.Time, topN int) (*ledgerDomain.Overview, error)

	// QueryLogs returns the most recent limit entries, newest first.
	QueryLogs(ctx context.Context, limit int) ([]*ledgerDomain.AuditEntry, error)

	// PurgeLogs deletes entries older than olderThan, or only counts them when dryRun is set.
	// Usage aggregates are kept.
	PurgeLogs(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error)
}
