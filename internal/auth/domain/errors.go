package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrMissingToken indicates no credential was presented.
	ErrMissingToken = errors.Wrap(errors.ErrUnauthorized, "missing token")

	// ErrInvalidToken indicates a malformed, forged, revoked or foreign-issuer token.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrExpiredToken indicates a well-formed token past its expiry.
	ErrExpiredToken = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrInvalidStaticKey indicates a missing or wrong administrative API key.
	ErrInvalidStaticKey = errors.Wrap(errors.ErrUnauthorized, "invalid api key")

	// ErrPermissionDenied indicates the caller lacks the required permission.
	ErrPermissionDenied = errors.Wrap(errors.ErrForbidden, "insufficient permissions")

	// ErrInvalidSubject indicates an empty token subject.
	ErrInvalidSubject = errors.Wrap(errors.ErrInvalidInput, "subject is required")
)
