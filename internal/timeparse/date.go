package timeparse

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses an absolute date in UTC.
// Supported formats:
//   - YYYY-MM-DD
//   - RFC3339, e.g. 2025-10-27T10:00:00Z (truncated to its UTC day)
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC3339)", s)
}

// FormatDate renders t in the YYYY-MM-DD form search qualifiers expect.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
