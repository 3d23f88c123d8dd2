// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// maxTokenTTLHours caps the lifetime a caller may request for a token (30 days).
const maxTokenTTLHours = 720

// IssueTokenRequest contains the parameters for issuing a token.
type IssueTokenRequest struct {
	Subject     string   `json:"subject"`
	Permissions []string `json:"permissions"`
	// TTLHours of 0 selects the configured default lifetime.
	TTLHours int `json:"ttl_hours"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Subject,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Permissions,
			validation.Each(
				validation.Required,
				customValidation.NotBlank,
				customValidation.NoWhitespace,
				validation.Length(1, 100),
			),
		),
		validation.Field(&r.TTLHours,
			validation.Min(0),
			validation.Max(maxTokenTTLHours),
		),
	)
}

// ToInput converts the request into the use case input.
func (r *IssueTokenRequest) ToInput() *authDomain.IssueTokenInput {
	return &authDomain.IssueTokenInput{
		Subject:     r.Subject,
		Permissions: r.Permissions,
		TTL:         time.Duration(r.TTLHours) * time.Hour,
	}
}

// IntrospectTokenRequest contains the token to introspect.
type IntrospectTokenRequest struct {
	Token string `json:"token"`
}

// Validate checks if the introspect request is valid.
func (r *IntrospectTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required, customValidation.NotBlank),
	)
}
