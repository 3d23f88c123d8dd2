package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

// MySQLAuditEntryRepository implements AuditEntry persistence for MySQL. IDs are stored
// as BINARY(16).
type MySQLAuditEntryRepository struct {
	db *sql.DB
}

// NewMySQLAuditEntryRepository creates a new MySQL AuditEntry repository.
func NewMySQLAuditEntryRepository(db *sql.DB) *MySQLAuditEntryRepository {
	return &MySQLAuditEntryRepository{db: db}
}

// Create appends an audit entry.
func (m *MySQLAuditEntryRepository) Create(ctx context.Context, entry *ledgerDomain.AuditEntry) error {
	querier := database.GetTx(ctx, m.db)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	query := `INSERT INTO audit_logs (` + auditEntryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// ListRecent retrieves the newest audit entries.
func (m *MySQLAuditEntryRepository) ListRecent(ctx context.Context, limit int) ([]*ledgerDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + auditEntryColumns + `
			  FROM audit_logs
			  ORDER BY created_at DESC, id DESC
			  LIMIT ?`

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
		var id []byte

		if err := rows.Scan(
			&id,
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
		if err := entry.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit entry id")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStorage(err, "failed to iterate audit entries")
	}
	return entries, nil
}

// CountOlderThan counts audit entries created before cutoff.
func (m *MySQLAuditEntryRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE created_at < ?`, cutoff).
		Scan(&count)
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to count audit entries")
	}
	return count, nil
}

// DeleteOlderThan removes audit entries created before cutoff.
func (m *MySQLAuditEntryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to delete audit entries")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to delete audit entries")
	}
	return count, nil
}
