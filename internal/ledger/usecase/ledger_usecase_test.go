package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/allisson/gatekeeper/internal/database/mocks"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
	ledgerMocks "github.com/allisson/gatekeeper/internal/ledger/usecase/mocks"
)

var fixedNow = time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestLedgerUseCase_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FillsIDAndTimestamp", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		auditRepo := &ledgerMocks.MockAuditEntryRepository{}
		usageRepo := &ledgerMocks.MockUsageAggregateRepository{}
		uc := NewLedgerUseCase(txManager, auditRepo, usageRepo, clock)

		entry := &ledgerDomain.AuditEntry{
			ClientID:       "ip:10.0.0.1",
			Endpoint:       "/v1/me",
			Method:         "GET",
			StatusCode:     200,
			ResponseTimeMs: 12,
		}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		auditRepo.On("Create", ctx, entry).Return(nil).Once()
		usageRepo.On("Increment", ctx, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			"ip:10.0.0.1", "/v1/me", int64(12)).Return(nil).Once()

		require.NoError(t, uc.Record(ctx, entry))
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, fixedNow, entry.Timestamp)
		txManager.AssertExpectations(t)
		auditRepo.AssertExpectations(t)
		usageRepo.AssertExpectations(t)
	})

	t.Run("Error_AggregateFailureSurfaces", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		auditRepo := &ledgerMocks.MockAuditEntryRepository{}
		usageRepo := &ledgerMocks.MockUsageAggregateRepository{}
		uc := NewLedgerUseCase(txManager, auditRepo, usageRepo, clock)

		storageErr := apperrors.WrapStorage(errors.New("deadlock"), "failed to upsert")
		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		auditRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		usageRepo.On("Increment", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storageErr).
			Once()

		err := uc.Record(ctx, &ledgerDomain.AuditEntry{ClientID: "c", Endpoint: "/a"})
		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})

	t.Run("Error_AuditFailureSkipsAggregate", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		auditRepo := &ledgerMocks.MockAuditEntryRepository{}
		usageRepo := &ledgerMocks.MockUsageAggregateRepository{}
		uc := NewLedgerUseCase(txManager, auditRepo, usageRepo, clock)

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		auditRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

		err := uc.Record(ctx, &ledgerDomain.AuditEntry{ClientID: "c", Endpoint: "/a"})
		assert.Error(t, err)
		usageRepo.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLedgerUseCase_QueryLogs(t *testing.T) {
	ctx := context.Background()
	auditRepo := &ledgerMocks.MockAuditEntryRepository{}
	uc := NewLedgerUseCase(nil, auditRepo, nil, clock)

	entries := []*ledgerDomain.AuditEntry{{Endpoint: "/b"}, {Endpoint: "/a"}}
	auditRepo.On("ListRecent", ctx, 2).Return(entries, nil).Once()

	got, err := uc.QueryLogs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	auditRepo.On("ListRecent", ctx, 5).Return(nil, errors.New("boom")).Once()
	_, err = uc.QueryLogs(ctx, 5)
	assert.Error(t, err)
}

func TestLedgerUseCase_PurgeLogs(t *testing.T) {
	ctx := context.Background()
	cutoff := fixedNow.Add(-30 * 24 * time.Hour)

	t.Run("DryRunCounts", func(t *testing.T) {
		auditRepo := &ledgerMocks.MockAuditEntryRepository{}
		uc := NewLedgerUseCase(nil, auditRepo, nil, clock)

		auditRepo.On("CountOlderThan", ctx, cutoff).Return(int64(7), nil).Once()

		count, err := uc.PurgeLogs(ctx, 30*24*time.Hour, true)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
		auditRepo.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything)
	})

	t.Run("Deletes", func(t *testing.T) {
		auditRepo := &ledgerMocks.MockAuditEntryRepository{}
		uc := NewLedgerUseCase(nil, auditRepo, nil, clock)

		auditRepo.On("DeleteOlderThan", ctx, cutoff).Return(int64(3), nil).Once()

		count, err := uc.PurgeLogs(ctx, 30*24*time.Hour, false)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("NegativeRetention", func(t *testing.T) {
		uc := NewLedgerUseCase(nil, &ledgerMocks.MockAuditEntryRepository{}, nil, clock)

		_, err := uc.PurgeLogs(ctx, -time.Hour, false)
		assert.ErrorIs(t, err, ledgerDomain.ErrInvalidRetention)
	})
}

// memoryLedgerStore implements both repositories over slices and a map.
type memoryLedgerStore struct {
	mu      sync.Mutex
	entries []*ledgerDomain.AuditEntry
	usage   map[string]*ledgerDomain.UsageAggregate
}

func newMemoryLedgerStore() *memoryLedgerStore {
	return &memoryLedgerStore{usage: make(map[string]*ledgerDomain.UsageAggregate)}
}

func (m *memoryLedgerStore) Create(_ context.Context, entry *ledgerDomain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

func (m *memoryLedgerStore) ListRecent(_ context.Context, limit int) ([]*ledgerDomain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*ledgerDomain.AuditEntry(nil), m.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryLedgerStore) CountOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

func (m *memoryLedgerStore) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

func (m *memoryLedgerStore) Increment(
	_ context.Context,
	date time.Time,
	clientID, endpoint string,
	responseTimeMs int64,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := date.Format(time.DateOnly) + "|" + clientID + "|" + endpoint
	agg, ok := m.usage[key]
	if !ok {
		agg = &ledgerDomain.UsageAggregate{Date: date, ClientID: clientID, Endpoint: endpoint}
		m.usage[key] = agg
	}
	agg.RequestCount++
	agg.TotalResponseTimeMs += responseTimeMs
	return nil
}

func (m *memoryLedgerStore) ListByDate(_ context.Context, date time.Time) ([]*ledgerDomain.UsageAggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ledgerDomain.UsageAggregate
	for _, agg := range m.usage {
		if agg.Date.Equal(date) {
			copied := *agg
			out = append(out, &copied)
		}
	}
	return out, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestLedgerUseCase_OverviewAfterRecords(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore()
	uc := NewLedgerUseCase(passthroughTxManager{}, store, store, clock)

	for i, call := range []struct {
		endpoint string
		ms       int64
	}{{"/a", 10}, {"/a", 20}, {"/b", 30}} {
		require.NoError(t, uc.Record(ctx, &ledgerDomain.AuditEntry{
			ClientID:       "ip:10.0.0.1",
			Endpoint:       call.endpoint,
			Method:         "GET",
			StatusCode:     200,
			ResponseTimeMs: call.ms,
			Timestamp:      fixedNow.Add(time.Duration(i) * time.Second),
		}))
	}

	overview, err := uc.QueryOverview(ctx, fixedNow, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), overview.TotalRequests)
	assert.Equal(t, 20.0, overview.AverageResponseTimeMs)
	require.Len(t, overview.TopEndpoints, 2)
	assert.Equal(t, "/a", overview.TopEndpoints[0].Endpoint)
	assert.Equal(t, "/b", overview.TopEndpoints[1].Endpoint)

	logs, err := uc.QueryLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "/b", logs[0].Endpoint)
	assert.Equal(t, int64(20), logs[1].ResponseTimeMs)

	yesterday, err := uc.QueryOverview(ctx, fixedNow.Add(-24*time.Hour), 5)
	require.NoError(t, err)
	assert.Zero(t, yesterday.TotalRequests)
}
