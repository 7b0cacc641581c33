// Package timeparse parses the recency settings used by repository quality
// filters: relative windows ("365d", "26w", "1y") and absolute dates.
package timeparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var windowUnits = map[string]time.Duration{
	"h":      time.Hour,
	"d":      day,
	"day":    day,
	"days":   day,
	"w":      7 * day,
	"week":   7 * day,
	"weeks":  7 * day,
	"mo":     30 * day,
	"month":  30 * day,
	"months": 30 * day,
	"y":      365 * day,
	"year":   365 * day,
	"years":  365 * day,
}

// ParseWindow parses a look-back window such as "180d", "26w", "6mo" or "1y".
// Months are 30 days and years 365 days; the floor this produces is a
// search qualifier, so calendar precision does not matter.
func ParseWindow(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty window string")
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("invalid window %q: missing number", s)
	}
	if i == len(s) {
		return 0, fmt.Errorf("invalid window %q: missing unit", s)
	}

	num, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window %q: %w", s, err)
	}

	unitStr := strings.ToLower(strings.TrimSpace(s[i:]))
	unit, ok := windowUnits[unitStr]
	if !ok {
		return 0, fmt.Errorf("invalid window %q: unknown unit %q (supported: h, d, w, mo, y)", s, unitStr)
	}
	if num > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("invalid window %q: value too large", s)
	}
	if num == 0 {
		return 0, fmt.Errorf("invalid window %q: must be greater than zero", s)
	}

	return time.Duration(num) * unit, nil
}

// Floor returns the UTC day on or before now minus window. Search
// qualifiers only have day resolution.
func Floor(now time.Time, window time.Duration) time.Time {
	t := now.Add(-window).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
