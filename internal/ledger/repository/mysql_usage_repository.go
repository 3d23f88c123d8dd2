package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

// MySQLUsageRepository implements UsageAggregate persistence for MySQL.
type MySQLUsageRepository struct {
	db *sql.DB
}

// NewMySQLUsageRepository creates a new MySQL UsageAggregate repository.
func NewMySQLUsageRepository(db *sql.DB) *MySQLUsageRepository {
	return &MySQLUsageRepository{db: db}
}

// Increment upserts the aggregate row through the (usage_date, client_id, endpoint)
// primary key.
func (m *MySQLUsageRepository) Increment(
	ctx context.Context,
	date time.Time,
	clientID, endpoint string,
	responseTimeMs int64,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO usage_aggregates (` + usageAggregateColumns + `)
			  VALUES (?, ?, ?, 1, ?)
			  ON DUPLICATE KEY UPDATE
			  request_count = request_count + 1,
			  total_response_time_ms = total_response_time_ms + VALUES(total_response_time_ms)`

	if _, err := querier.ExecContext(ctx, query, date, clientID, endpoint, responseTimeMs); err != nil {
		return apperrors.WrapStorage(err, "failed to increment usage aggregate")
	}
	return nil
}

// ListByDate retrieves every aggregate of one day.
func (m *MySQLUsageRepository) ListByDate(
	ctx context.Context,
	date time.Time,
) ([]*ledgerDomain.UsageAggregate, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + usageAggregateColumns + ` FROM usage_aggregates WHERE usage_date = ?`

	rows, err := querier.QueryContext(ctx, query, date)
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list usage aggregates")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanUsageAggregates(rows)
}
