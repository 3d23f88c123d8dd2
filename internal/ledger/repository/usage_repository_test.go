package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

var usageColumnNames = []string{"usage_date", "client_id", "endpoint", "request_count", "total_response_time_ms"}

func TestPostgreSQLUsageRepository_Increment(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (usage_date, client_id, endpoint) DO UPDATE")).
			WithArgs(date, "ip:10.0.0.1", "/a", int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgreSQLUsageRepository(db).Increment(ctx, date, "ip:10.0.0.1", "/a", 10)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_Storage", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO usage_aggregates").WillReturnError(errors.New("conn reset"))

		err := NewPostgreSQLUsageRepository(db).Increment(ctx, date, "c", "/a", 1)
		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})
}

func TestPostgreSQLUsageRepository_ListByDate(t *testing.T) {
	db, mock := newSQLMock(t)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM usage_aggregates WHERE usage_date = $1")).
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows(usageColumnNames).
			AddRow(date, "c1", "/a", 2, 30).
			AddRow(date, "c1", "/b", 1, 30))

	aggregates, err := NewPostgreSQLUsageRepository(db).ListByDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, aggregates, 2)
	assert.Equal(t, int64(2), aggregates[0].RequestCount)
	assert.Equal(t, 15.0, aggregates[0].AverageResponseTimeMs())
	assert.Equal(t, date, aggregates[1].Date)
}

func TestMySQLUsageRepository_Increment(t *testing.T) {
	db, mock := newSQLMock(t)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
		WithArgs(date, "c", "/a", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := NewMySQLUsageRepository(db).Increment(context.Background(), date, "c", "/a", 5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLUsageRepository_ListByDate(t *testing.T) {
	db, mock := newSQLMock(t)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE usage_date = ?")).
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows(usageColumnNames).AddRow(date, "c", "/a", 1, 7))

	aggregates, err := NewMySQLUsageRepository(db).ListByDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, int64(7), aggregates[0].TotalResponseTimeMs)
}
