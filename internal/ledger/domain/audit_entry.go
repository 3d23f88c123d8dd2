// Package domain defines the request accounting models: audit entries, daily usage
// aggregates, analytics overviews and fixed-window rate limit decisions.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records one completed request. Entries are append-only and ordered by
// Timestamp.
type AuditEntry struct {
	ID             uuid.UUID
	ClientID       string
	Endpoint       string
	Method         string
	StatusCode     int
	ResponseTimeMs int64
	UserAgent      string
	IPAddress      string
	Timestamp      time.Time
}

// UsageDate truncates t to the UTC calendar day its usage is aggregated under.
func UsageDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
