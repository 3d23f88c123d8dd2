package dto

import (
	"time"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// IssueTokenResponse contains the result of issuing a token.
// SECURITY: The token is only returned once and must be saved securely.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapIssueTokenOutputToResponse converts the issuance result to an API response.
func MapIssueTokenOutputToResponse(output *authDomain.IssueTokenOutput) IssueTokenResponse {
	return IssueTokenResponse{
		Token:     output.Token,
		TokenType: authDomain.TokenType,
		ExpiresAt: output.Claims.ExpiresAt,
	}
}

// ClaimsResponse represents token claims in API responses.
type ClaimsResponse struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Permissions []string  `json:"permissions"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Issuer      string    `json:"issuer"`
}

// MapClaimsToResponse converts domain claims to an API response.
func MapClaimsToResponse(claims *authDomain.Claims) *ClaimsResponse {
	if claims == nil {
		return nil
	}
	return &ClaimsResponse{
		ID:          claims.ID,
		Subject:     claims.Subject,
		Permissions: claims.PermissionStrings(),
		IssuedAt:    claims.IssuedAt,
		ExpiresAt:   claims.ExpiresAt,
		Issuer:      claims.Issuer,
	}
}

// PrincipalResponse describes the authenticated caller.
type PrincipalResponse struct {
	Kind    string          `json:"kind"`
	Subject string          `json:"subject"`
	Claims  *ClaimsResponse `json:"claims,omitempty"`
}

// MapPrincipalToResponse converts a principal to an API response.
func MapPrincipalToResponse(principal *authDomain.Principal) PrincipalResponse {
	return PrincipalResponse{
		Kind:    string(principal.Kind),
		Subject: principal.Subject,
		Claims:  MapClaimsToResponse(principal.Claims),
	}
}

// IntrospectTokenResponse reports whether a token is active and, if so, its claims.
type IntrospectTokenResponse struct {
	Active bool            `json:"active"`
	Claims *ClaimsResponse `json:"claims,omitempty"`
}
