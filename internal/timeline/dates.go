// Package timeline implements the roadmap core: start-date resolution,
// parent/epic grouping, the shared time axis, filter evaluation, and the
// expand/collapse view state. Everything here is a pure transformation over
// an in-memory ticket collection; ingestion and storage live elsewhere.
package timeline

import (
	"strings"
	"time"
)

// dateFormats are tried in order when parsing raw date strings. Jira emits
// the millisecond+zone form; config files and fixtures use the shorter ones.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a raw date string from any supported ingestion source.
// Strings beginning with '[' or '{' are serialized collections leaking out
// of a malformed custom field and are rejected outright, not parsed.
// Returns false for anything unparseable; callers treat that as "absent".
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// daysBetween counts whole days from a to b. Negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// startOfMonth returns midnight UTC on the first day of t's month.
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// endOfMonth returns midnight UTC on the last day of t's month.
func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, -1)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
