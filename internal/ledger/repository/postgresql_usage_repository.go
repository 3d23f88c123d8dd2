package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

const usageAggregateColumns = `usage_date, client_id, endpoint, request_count, total_response_time_ms`

// PostgreSQLUsageRepository implements UsageAggregate persistence for PostgreSQL.
type PostgreSQLUsageRepository struct {
	db *sql.DB
}

// NewPostgreSQLUsageRepository creates a new PostgreSQL UsageAggregate repository.
func NewPostgreSQLUsageRepository(db *sql.DB) *PostgreSQLUsageRepository {
	return &PostgreSQLUsageRepository{db: db}
}

// Increment upserts the aggregate row in a single statement.
func (p *PostgreSQLUsageRepository) Increment(
	ctx context.Context,
	date time.Time,
	clientID, endpoint string,
	responseTimeMs int64,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO usage_aggregates (` + usageAggregateColumns + `)
			  VALUES ($1, $2, $3, 1, $4)
			  ON CONFLICT (usage_date, client_id, endpoint) DO UPDATE
			  SET request_count = usage_aggregates.request_count + 1,
			      total_response_time_ms = usage_aggregates.total_response_time_ms + EXCLUDED.total_response_time_ms`

	if _, err := querier.ExecContext(ctx, query, date, clientID, endpoint, responseTimeMs); err != nil {
		return apperrors.WrapStorage(err, "failed to increment usage aggregate")
	}
	return nil
}

// ListByDate retrieves every aggregate of one day.
func (p *PostgreSQLUsageRepository) ListByDate(
	ctx context.Context,
	date time.Time,
) ([]*ledgerDomain.UsageAggregate, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + usageAggregateColumns + ` FROM usage_aggregates WHERE usage_date = $1`

	rows, err := querier.QueryContext(ctx, query, date)
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list usage aggregates")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanUsageAggregates(rows)
}

func scanUsageAggregates(rows *sql.Rows) ([]*ledgerDomain.UsageAggregate, error) {
	aggregates := make([]*ledgerDomain.UsageAggregate, 0)
	for rows.Next() {
		var agg ledgerDomain.UsageAggregate
		if err := rows.Scan(
			&agg.Date,
			&agg.ClientID,
			&agg.Endpoint,
			&agg.RequestCount,
			&agg.TotalResponseTimeMs,
		); err != nil {
			return nil, apperrors.WrapStorage(err, "failed to scan usage aggregate")
		}
		agg.Date = ledgerDomain.UsageDate(agg.Date)
		aggregates = append(aggregates, &agg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStorage(err, "failed to iterate usage aggregates")
	}
	return aggregates, nil
}
