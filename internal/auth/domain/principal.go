package domain

import "time"

// Principal is the authenticated caller of a request.
type Principal struct {
	Kind    PrincipalKind
	Subject string
	// Claims is nil for static-key callers.
	Claims *Claims
}

// IssueTokenInput contains the parameters for issuing a token.
type IssueTokenInput struct {
	Subject     string
	Permissions []string
	// TTL <= 0 selects the configured default.
	TTL time.Duration
}

// IssueTokenOutput contains the signed token and its claims.
type IssueTokenOutput struct {
	Token  string
	Claims *Claims
}
