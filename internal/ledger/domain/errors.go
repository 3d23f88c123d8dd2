package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Ledger error definitions.
var (
	// ErrRateLimitExceeded indicates the caller used up its quota for the current window.
	ErrRateLimitExceeded = errors.Wrap(errors.ErrRateLimited, "rate limit exceeded")

	// ErrInvalidWindow indicates a limiter configured with a non-positive limit or a period
	// shorter than one second.
	ErrInvalidWindow = errors.Wrap(errors.ErrInvalidInput, "invalid rate limit window")

	// ErrInvalidRetention indicates a negative audit log retention.
	ErrInvalidRetention = errors.Wrap(errors.ErrInvalidInput, "retention must not be negative")
)
