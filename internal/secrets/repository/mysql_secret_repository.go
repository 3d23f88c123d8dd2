package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	secretsDomain "github.com/allisson/gatekeeper/internal/secrets/domain"
)

const mysqlSecretColumns = `id, name, encrypted_value, description, created_by, created_at, updated_at`

// MySQLSecretRepository implements Secret persistence for MySQL databases. IDs are stored
// as BINARY(16).
type MySQLSecretRepository struct {
	db *sql.DB
}

// NewMySQLSecretRepository creates a new MySQL Secret repository instance.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}

// Create inserts a new secret. The unique index on name turns a concurrent duplicate into
// ErrSecretAlreadyExists.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	id, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	query := `INSERT INTO secrets (` + mysqlSecretColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		secret.Name,
		secret.EncryptedValue,
		secret.Description,
		secret.CreatedBy,
		secret.CreatedAt,
		secret.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return secretsDomain.ErrSecretAlreadyExists
		}
		return apperrors.WrapStorage(err, "failed to create secret")
	}
	return nil
}

// GetByName retrieves a secret by its name.
func (m *MySQLSecretRepository) GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error) {
	query := `SELECT ` + mysqlSecretColumns + ` FROM secrets WHERE name = ?`
	return m.getOne(ctx, query, name)
}

// GetByNameForUpdate retrieves a secret by its name and locks the row until the surrounding
// transaction ends.
func (m *MySQLSecretRepository) GetByNameForUpdate(
	ctx context.Context,
	name string,
) (*secretsDomain.Secret, error) {
	query := `SELECT ` + mysqlSecretColumns + ` FROM secrets WHERE name = ? FOR UPDATE`
	return m.getOne(ctx, query, name)
}

func (m *MySQLSecretRepository) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	secret, err := scanMySQLSecret(querier.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.WrapStorage(err, "failed to get secret")
	}
	return secret, nil
}

// UpdateValue stores a rotated ciphertext. Name, creation time and creator are left untouched.
func (m *MySQLSecretRepository) UpdateValue(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	id, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	query := `UPDATE secrets SET encrypted_value = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, secret.EncryptedValue, secret.UpdatedAt, id)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to update secret")
	}
	return requireAffected(result, "failed to update secret")
}

// List retrieves secrets ordered by name with pagination.
func (m *MySQLSecretRepository) List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlSecretColumns + ` FROM secrets ORDER BY name ASC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list secrets")
	}
	defer func() {
		_ = rows.Close()
	}()

	secrets := make([]*secretsDomain.Secret, 0)
	for rows.Next() {
		secret, err := scanMySQLSecret(rows)
		if err != nil {
			return nil, apperrors.WrapStorage(err, "failed to scan secret")
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStorage(err, "failed to iterate secrets")
	}
	return secrets, nil
}

// Delete removes a secret by name.
func (m *MySQLSecretRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE name = ?`, name)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to delete secret")
	}
	return requireAffected(result, "failed to delete secret")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLSecret(row rowScanner) (*secretsDomain.Secret, error) {
	var secret secretsDomain.Secret
	var id []byte

	if err := row.Scan(
		&id,
		&secret.Name,
		&secret.EncryptedValue,
		&secret.Description,
		&secret.CreatedBy,
		&secret.CreatedAt,
		&secret.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := secret.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
	}
	return &secret, nil
}
