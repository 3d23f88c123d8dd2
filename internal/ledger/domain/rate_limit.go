package domain

import (
	"fmt"
	"time"
)

// Decision is the outcome of admitting one request into a fixed window.
type Decision struct {
	Allowed bool
	// Count is the post-increment number of requests seen in the window.
	Count     int64
	Limit     int64
	Remaining int64
	// ResetAt is the start of the next window.
	ResetAt time.Time
}

// RetryAfter returns how long a rejected caller should wait at now, rounded up to whole
// seconds and never below one second.
func (d *Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	seconds := (wait + time.Second - 1) / time.Second
	if seconds < 1 {
		seconds = 1
	}
	return seconds * time.Second
}

// WindowIndex returns floor(unix seconds / period seconds) for now.
func WindowIndex(now time.Time, period time.Duration) int64 {
	return now.Unix() / int64(period/time.Second)
}

// WindowEnd returns the first instant of the window after the one holding now.
func WindowEnd(now time.Time, period time.Duration) time.Time {
	seconds := int64(period / time.Second)
	return time.Unix((WindowIndex(now, period)+1)*seconds, 0).UTC()
}

// WindowKey identifies the counter of clientID in window index.
func WindowKey(clientID string, index int64) string {
	return fmt.Sprintf("%s:%d", clientID, index)
}
