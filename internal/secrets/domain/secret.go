// Package domain defines the core domain models and types for secret custody.
// A secret is stored once per name; rotation replaces its ciphertext in place.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Secret is a named value held encrypted at rest.
type Secret struct {
	// ID is the unique identifier of the secret.
	ID uuid.UUID
	// Name is the unique logical key used to access the secret (e.g., "billing/stripe-key").
	Name string
	// EncryptedValue is the cipher envelope of the value. Plaintext is never stored.
	EncryptedValue string
	// Description is free-form operator text.
	Description string
	// CreatedBy is the subject of the principal that created the secret.
	CreatedBy string
	// CreatedAt is the UTC timestamp when the secret was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last rotation; never before CreatedAt.
	UpdatedAt time.Time
}

// SecretView is what callers read: metadata plus, when requested, the plaintext value.
type SecretView struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	// Value holds the decrypted secret in memory only; nil unless decryption was requested.
	// Callers must zero it after use.
	Value []byte `json:"-"`
}

// NewSecretView builds a view of secret without its value.
func NewSecretView(secret *Secret) *SecretView {
	return &SecretView{
		ID:          secret.ID,
		Name:        secret.Name,
		Description: secret.Description,
		CreatedBy:   secret.CreatedBy,
		CreatedAt:   secret.CreatedAt,
		UpdatedAt:   secret.UpdatedAt,
	}
}

// CreateSecretInput contains the parameters for creating a secret.
type CreateSecretInput struct {
	Name        string
	Value       []byte
	Description string
}
