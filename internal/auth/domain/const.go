// Package domain defines the claims, permissions and principals of the zero-trust gateway.
package domain

import "time"

// Permission is an opaque capability string carried by a token, e.g. "manage:secrets".
type Permission string

const (
	// PermissionManageSecrets allows creating and rotating secrets.
	PermissionManageSecrets Permission = "manage:secrets"

	// PermissionReadSecrets allows reading and listing secrets.
	PermissionReadSecrets Permission = "read:secrets"

	// PermissionReadAnalytics allows reading the usage overview and audit logs.
	PermissionReadAnalytics Permission = "read:analytics"
)

// Issuer is the fixed "iss" value of every token.
const Issuer = "zero-trust-gateway"

// DefaultTokenTTL is the lifetime of a token issued without an explicit ttl.
const DefaultTokenTTL = 24 * time.Hour

// TokenType is reported alongside issued tokens.
const TokenType = "Bearer"

// PrincipalKind tells how a caller authenticated.
type PrincipalKind string

const (
	// PrincipalStaticKey is a caller that presented the administrative API key.
	PrincipalStaticKey PrincipalKind = "static_key"

	// PrincipalToken is a caller that presented a signed token.
	PrincipalToken PrincipalKind = "token"
)

// StaticKeySubject is the subject recorded for static-key callers.
const StaticKeySubject = "admin"
