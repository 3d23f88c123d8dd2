// Package usecase implements the secrets custodian: permission-checked creation, retrieval,
// listing and rotation of secrets encrypted at rest.
package usecase

import (
	"context"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	secretsDomain "github.com/allisson/gatekeeper/internal/secrets/domain"
)

// SecretRepository defines the interface for Secret persistence operations.
type SecretRepository interface {
	// Create inserts secret. Returns ErrSecretAlreadyExists when the name is taken.
	Create(ctx context.Context, secret *secretsDomain.Secret) error
	// GetByName returns the secret or ErrSecretNotFound.
	GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error)
	// GetByNameForUpdate is GetByName holding a row lock until the surrounding
	// transaction ends.
	GetByNameForUpdate(ctx context.Context, name string) (*secretsDomain.Secret, error)
	// UpdateValue stores the new ciphertext and UpdatedAt of secret.
	UpdateValue(ctx context.Context, secret *secretsDomain.Secret) error
	// List returns secrets ordered by name.
	List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error)
	// Delete removes the secret. Returns ErrSecretNotFound when absent.
	Delete(ctx context.Context, name string) error
}

// SecretUseCase defines the custodian operations. Every operation checks the actor's
// permissions before touching storage.
type SecretUseCase interface {
	// Create encrypts and stores a new secret. Requires manage:secrets.
	// Errors: ErrPermissionDenied, ErrSecretAlreadyExists, ErrSecretValueRequired.
	Create(
		ctx context.Context,
		actor *authDomain.Claims,
		input *secretsDomain.CreateSecretInput,
	) (*secretsDomain.Secret, error)

	// Get returns the secret named name, or (nil, nil) when absent. With decrypt the
	// view carries the plaintext value. Requires read:secrets or manage:secrets.
	//
	// Security Note: Callers MUST zero view.Value after use by calling cryptoDomain.Zero.
	Get(ctx context.Context, actor *authDomain.Claims, name string, decrypt bool) (*secretsDomain.SecretView, error)

	// Rotate replaces the value of an existing secret. Requires manage:secrets.
	// Errors: ErrPermissionDenied, ErrSecretNotFound, ErrSecretValueRequired.
	Rotate(ctx context.Context, actor *authDomain.Claims, name string, newValue []byte) (*secretsDomain.Secret, error)

	// List returns secret metadata ordered by name. Requires read:secrets or manage:secrets.
	List(ctx context.Context, actor *authDomain.Claims, offset, limit int) ([]*secretsDomain.SecretView, error)
}
