package utils

import (
	"time"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp returns the provided time in UTC using an ISO 8601 layout
// with millisecond precision. Zero values produce an empty string.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(timestampLayout)
}
