package dto

import (
	"time"

	secretsDomain "github.com/allisson/gatekeeper/internal/secrets/domain"
)

// SecretResponse represents a secret in API responses.
// SECURITY: Value contains plaintext and is only set by GET with decryption.
type SecretResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Value       *string   `json:"value,omitempty"`
}

// MapSecretToResponse converts a stored secret to a metadata-only response.
func MapSecretToResponse(secret *secretsDomain.Secret) SecretResponse {
	return MapSecretViewToResponse(secretsDomain.NewSecretView(secret))
}

// MapSecretViewToResponse converts a secret view to an API response. The value is
// included when the view carries one.
func MapSecretViewToResponse(view *secretsDomain.SecretView) SecretResponse {
	response := SecretResponse{
		ID:          view.ID.String(),
		Name:        view.Name,
		Description: view.Description,
		CreatedBy:   view.CreatedBy,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
	}
	if view.Value != nil {
		value := string(view.Value)
		response.Value = &value
	}
	return response
}

// ListSecretsResponse represents a paginated list of secrets in API responses.
type ListSecretsResponse struct {
	Data []SecretResponse `json:"data"`
}

// MapSecretViewsToListResponse converts secret views to a list response.
func MapSecretViewsToListResponse(views []*secretsDomain.SecretView) ListSecretsResponse {
	data := make([]SecretResponse, 0, len(views))
	for _, view := range views {
		data = append(data, MapSecretViewToResponse(view))
	}
	return ListSecretsResponse{Data: data}
}
