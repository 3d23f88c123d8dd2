package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no secret exists with the given name.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretAlreadyExists indicates a secret with the same name is already stored.
	ErrSecretAlreadyExists = errors.Wrap(errors.ErrConflict, "secret already exists")

	// ErrSecretDecryption indicates a stored value could not be decrypted. It is distinct
	// from ErrSecretNotFound so corruption is never mistaken for absence.
	ErrSecretDecryption = errors.Wrap(errors.ErrCrypto, "secret could not be decrypted")

	// ErrSecretValueRequired indicates an empty secret value.
	ErrSecretValueRequired = errors.Wrap(errors.ErrInvalidInput, "secret value is required")

	// ErrSecretNameRequired indicates an empty secret name.
	ErrSecretNameRequired = errors.Wrap(errors.ErrInvalidInput, "secret name is required")
)
