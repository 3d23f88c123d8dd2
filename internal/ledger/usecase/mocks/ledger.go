// Package mocks provides mock implementations of the ledger use case and its repositories.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

// MockAuditEntryRepository is a mock implementation of AuditEntryRepository for testing.
type MockAuditEntryRepository struct {
	mock.Mock
}

// Create mocks the Create method of AuditEntryRepository.
func (m *MockAuditEntryRepository) Create(ctx context.Context, entry *ledgerDomain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// ListRecent mocks the ListRecent method of AuditEntryRepository.
func (m *MockAuditEntryRepository) ListRecent(ctx context.Context, limit int) ([]*ledgerDomain.AuditEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledgerDomain.AuditEntry), args.Error(1)
}

// CountOlderThan mocks the CountOlderThan method of AuditEntryRepository.
func (m *MockAuditEntryRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method of AuditEntryRepository.
func (m *MockAuditEntryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockUsageAggregateRepository is a mock implementation of UsageAggregateRepository for testing.
type MockUsageAggregateRepository struct {
	mock.Mock
}

// Increment mocks the Increment method of UsageAggregateRepository.
func (m *MockUsageAggregateRepository) Increment(
	ctx context.Context,
	date time.Time,
	clientID, endpoint string,
	responseTimeMs int64,
) error {
	args := m.Called(ctx, date, clientID, endpoint, responseTimeMs)
	return args.Error(0)
}

// ListByDate mocks the ListByDate method of UsageAggregateRepository.
func (m *MockUsageAggregateRepository) ListByDate(
	ctx context.Context,
	date time.Time,
) ([]*ledgerDomain.UsageAggregate, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledgerDomain.UsageAggregate), args.Error(1)
}

// MockLedgerUseCase is a mock implementation of LedgerUseCase for testing.
type MockLedgerUseCase struct {
	mock.Mock
}

// Record mocks the Record method of LedgerUseCase.
func (m *MockLedgerUseCase) Record(ctx context.Context, entry *ledgerDomain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// QueryOverview mocks the QueryOverview method of LedgerUseCase.
func (m *MockLedgerUseCase) QueryOverview(
	ctx context.Context,
	date time.Time,
	topN int,
) (*ledgerDomain.Overview, error) {
	args := m.Called(ctx, date, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerDomain.Overview), args.Error(1)
}

// QueryLogs mocks the QueryLogs method of LedgerUseCase.
func (m *MockLedgerUseCase) QueryLogs(ctx context.Context, limit int) ([]*ledgerDomain.AuditEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledgerDomain.AuditEntry), args.Error(1)
}

// PurgeLogs mocks the PurgeLogs method of LedgerUseCase.
func (m *MockLedgerUseCase) PurgeLogs(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
