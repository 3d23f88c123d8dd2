package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

var auditEntryColumnNames = []string{
	"id", "client_id", "endpoint", "method", "status_code", "response_time_ms",
	"user_agent", "ip_address", "created_at",
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testEntry() *ledgerDomain.AuditEntry {
	return &ledgerDomain.AuditEntry{
		ID:             uuid.Must(uuid.NewV7()),
		ClientID:       "token:ab12cd34ef56ab12",
		Endpoint:       "/v1/secrets/*name",
		Method:         "GET",
		StatusCode:     200,
		ResponseTimeMs: 14,
		UserAgent:      "curl/8.0",
		IPAddress:      "10.0.0.1",
		Timestamp:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPostgreSQLAuditEntryRepository_Create(t *testing.T) {
	ctx := context.Background()
	entry := testEntry()

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
			WithArgs(entry.ID, entry.ClientID, entry.Endpoint, entry.Method, entry.StatusCode,
				entry.ResponseTimeMs, entry.UserAgent, entry.IPAddress, entry.Timestamp).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewPostgreSQLAuditEntryRepository(db).Create(ctx, entry))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_Storage", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).WillReturnError(errors.New("disk full"))

		err := NewPostgreSQLAuditEntryRepository(db).Create(ctx, entry)
		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})
}

func TestPostgreSQLAuditEntryRepository_ListRecent(t *testing.T) {
	db, mock := newSQLMock(t)
	newer, older := testEntry(), testEntry()
	older.Timestamp = newer.Timestamp.Add(-time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(auditEntryColumnNames).
			AddRow(newer.ID.String(), newer.ClientID, newer.Endpoint, newer.Method, newer.StatusCode,
				newer.ResponseTimeMs, newer.UserAgent, newer.IPAddress, newer.Timestamp).
			AddRow(older.ID.String(), older.ClientID, older.Endpoint, older.Method, older.StatusCode,
				older.ResponseTimeMs, older.UserAgent, older.IPAddress, older.Timestamp))

	entries, err := NewPostgreSQLAuditEntryRepository(db).ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer, entries[0])
	assert.Equal(t, older.Timestamp, entries[1].Timestamp)
}

func TestPostgreSQLAuditEntryRepository_ListRecent_Empty(t *testing.T) {
	db, mock := newSQLMock(t)
	mock.ExpectQuery("FROM audit_logs").WillReturnRows(sqlmock.NewRows(auditEntryColumnNames))

	entries, err := NewPostgreSQLAuditEntryRepository(db).ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestPostgreSQLAuditEntryRepository_Retention(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Count", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_logs WHERE created_at < $1")).
			WithArgs(cutoff).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := NewPostgreSQLAuditEntryRepository(db).CountOlderThan(ctx, cutoff)
		require.NoError(t, err)
		assert.Equal(t, int64(42), count)
	})

	t.Run("Delete", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM audit_logs WHERE created_at < $1")).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 17))

		count, err := NewPostgreSQLAuditEntryRepository(db).DeleteOlderThan(ctx, cutoff)
		require.NoError(t, err)
		assert.Equal(t, int64(17), count)
	})
}
