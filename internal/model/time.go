package model

import (
	"fmt"
	"time"
)

// TimeFormat is the ISO-8601 encoding used at the storage boundary and in
// backup documents: millisecond precision, always UTC.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// FormatTime encodes t for persistence. Encoding then parsing is lossless to
// the millisecond.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(TimeFormat)
}

// ParseTime decodes a persisted timestamp. Any RFC 3339 input is accepted.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
