// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	secretsDomain "github.com/allisson/gatekeeper/internal/secrets/domain"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// maxSecretValueLength bounds the plaintext accepted in a single request (64 KiB).
const maxSecretValueLength = 64 * 1024

// CreateSecretRequest contains the parameters for creating a secret.
type CreateSecretRequest struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Validate checks if the create secret request is valid.
func (r *CreateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.SecretName,
		),
		validation.Field(&r.Value,
			validation.Required,
			validation.Length(1, maxSecretValueLength),
		),
		validation.Field(&r.Description,
			validation.Length(0, 1024),
		),
	)
}

// ToInput converts the request into the use case input.
func (r *CreateSecretRequest) ToInput() *secretsDomain.CreateSecretInput {
	return &secretsDomain.CreateSecretInput{
		Name:        r.Name,
		Value:       []byte(r.Value),
		Description: r.Description,
	}
}

// RotateSecretRequest carries the replacement value of a secret.
type RotateSecretRequest struct {
	Value string `json:"value"`
}

// Validate checks if the rotate secret request is valid.
func (r *RotateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value,
			validation.Required,
			validation.Length(1, maxSecretValueLength),
		),
	)
}
