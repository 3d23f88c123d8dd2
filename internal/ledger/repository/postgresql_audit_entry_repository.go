// Package repository implements data persistence for the request accounting ledger on
// PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

const auditEntryColumns = `id, client_id, endpoint, method, status_code, response_time_ms, user_agent, ip_address, created_at`

// PostgreSQLAuditEntryRepository implements AuditEntry persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAuditEntryRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditEntryRepository creates a new PostgreSQL AuditEntry repository.
func NewPostgreSQLAuditEntryRepository(db *sql.DB) *PostgreSQLAuditEntryRepository {
	return &PostgreSQLAuditEntryRepository{db: db}
}

// Create appends an audit entry.
func (p *PostgreSQLAuditEntryRepository) Create(ctx context.Context, entry *ledgerDomain.AuditEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_logs (` + auditEntryColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ClientID,
		entry.Endpoint,
		entry.Method,
		entry.StatusCode,
		entry.ResponseTimeMs,
		entry.UserAgent,
		entry.IPAddress,
		entry.Timestamp,
	)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to create audit entry")
	}
	return nil
}

// ListRecent retrieves the newest audit entries. UUIDv7 ids break timestamp ties in
// insertion order.
func (p *PostgreSQLAuditEntryRepository) ListRecent(
	ctx context.Context,
	limit int,
) ([]*ledgerDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + auditEntryColumns + `
			  FROM audit_logs
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*ledgerDomain.AuditEntry, 0)
	for rows.Next() {
		var entry ledgerDomain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ClientID,
			&entry.Endpoint,
			&entry.Method,
			&entry.StatusCode,
			&entry.ResponseTimeMs,
			&entry.UserAgent,
			&entry.IPAddress,
			&entry.Timestamp,
		); err != nil {
			return nil, apperrors.WrapStorage(err, "failed to scan audit entry")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStorage(err, "failed to iterate audit entries")
	}
	return entries, nil
}

// CountOlderThan counts audit entries created before cutoff.
func (p *PostgreSQLAuditEntryRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE created_at < $1`, cutoff).
		Scan(&count)
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to count audit entries")
	}
	return count, nil
}

// DeleteOlderThan removes audit entries created before cutoff.
func (p *PostgreSQLAuditEntryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to delete audit entries")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to delete audit entries")
	}
	return count, nil
}
