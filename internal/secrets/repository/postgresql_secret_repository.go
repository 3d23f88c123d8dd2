// Package repository implements data persistence for secrets on PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	secretsDomain "github.com/allisson/gatekeeper/internal/secrets/domain"
)

const postgresSecretColumns = `id, name, encrypted_value, description, created_by, created_at, updated_at`

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

// Create inserts a new secret. The unique index on name turns a concurrent duplicate into
// ErrSecretAlreadyExists.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets (` + postgresSecretColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
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
func (p *PostgreSQLSecretRepository) GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error) {
	query := `SELECT ` + postgresSecretColumns + ` FROM secrets WHERE name = $1`
	return p.getOne(ctx, query, name)
}

// GetByNameForUpdate retrieves a secret by its name and locks the row until the surrounding
// transaction ends.
func (p *PostgreSQLSecretRepository) GetByNameForUpdate(
	ctx context.Context,
	name string,
) (*secretsDomain.Secret, error) {
	query := `SELECT ` + postgresSecretColumns + ` FROM secrets WHERE name = $1 FOR UPDATE`
	return p.getOne(ctx, query, name)
}

func (p *PostgreSQLSecretRepository) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	var secret secretsDomain.Secret
	err := querier.QueryRowContext(ctx, query, args...).Scan(
		&secret.ID,
		&secret.Name,
		&secret.EncryptedValue,
		&secret.Description,
		&secret.CreatedBy,
		&secret.CreatedAt,
		&secret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.WrapStorage(err, "failed to get secret")
	}
	return &secret, nil
}

// UpdateValue stores a rotated ciphertext. Name, creation time and creator are left untouched.
func (p *PostgreSQLSecretRepository) UpdateValue(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets SET encrypted_value = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, secret.EncryptedValue, secret.UpdatedAt, secret.ID)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to update secret")
	}
	return requireAffected(result, "failed to update secret")
}

// List retrieves secrets ordered by name with pagination.
func (p *PostgreSQLSecretRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresSecretColumns + ` FROM secrets ORDER BY name ASC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.WrapStorage(err, "failed to list secrets")
	}
	defer func() {
		_ = rows.Close()
	}()

	secrets := make([]*secretsDomain.Secret, 0)
	for rows.Next() {
		var secret secretsDomain.Secret
		if err := rows.Scan(
			&secret.ID,
			&secret.Name,
			&secret.EncryptedValue,
			&secret.Description,
			&secret.CreatedBy,
			&secret.CreatedAt,
			&secret.UpdatedAt,
		); err != nil {
			return nil, apperrors.WrapStorage(err, "failed to scan secret")
		}
		secrets = append(secrets, &secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStorage(err, "failed to iterate secrets")
	}
	return secrets, nil
}

// Delete removes a secret by name.
func (p *PostgreSQLSecretRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE name = $1`, name)
	if err != nil {
		return apperrors.WrapStorage(err, "failed to delete secret")
	}
	return requireAffected(result, "failed to delete secret")
}

// requireAffected maps a statement that touched no row to ErrSecretNotFound.
func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.WrapStorage(err, message)
	}
	if affected == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}
