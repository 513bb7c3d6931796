package timeline

import (
	"strings"
	"time"

	"github.com/roadmapper/rdmp/internal/types"
)

// ResolverConfig controls how a ticket's effective start date is inferred.
// Both lists are configuration, not code: different Jira instances name
// their in-flight statuses and start-date custom fields differently.
type ResolverConfig struct {
	// StartedStatuses are the status names that mean work has begun. The
	// same set drives the status color table so the two cannot drift.
	StartedStatuses []string

	// CandidateFields are the raw field names tried, in order, when the
	// changelog gives no answer.
	CandidateFields []string
}

// DefaultResolverConfig returns the stock alias and candidate-field sets
// observed across Jira Cloud instances.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		StartedStatuses: []string{"In Progress", "In Development", "Development", "Doing"},
		CandidateFields: []string{"startdate", "customfield_10015", "customfield_10020"},
	}
}

// IsStarted reports whether status means work has begun. Matching is
// case-insensitive; Jira admins are not consistent about capitalization.
func (c ResolverConfig) IsStarted(status string) bool {
	for _, alias := range c.StartedStatuses {
		if strings.EqualFold(alias, status) {
			return true
		}
	}
	return false
}

// ResolveStartDate determines when work on the ticket began.
//
// The fallback chain, first hit wins:
//  1. The earliest changelog transition into a started status.
//  2. If the current status is a started one, the first candidate raw field
//     that parses as a date.
//  3. Nothing: ok is false.
//
// A ticket that has not started never inherits its creation date as a
// start date; conflating "created" with "started" corrupts the timeline.
// Malformed candidate values are skipped, never surfaced as errors.
func ResolveStartDate(t *types.Ticket, cfg ResolverConfig) (time.Time, bool) {
	var earliest time.Time
	for _, change := range t.Changelog {
		if !cfg.IsStarted(change.To) || change.At.IsZero() {
			continue
		}
		if earliest.IsZero() || change.At.Before(earliest) {
			earliest = change.At
		}
	}
	if !earliest.IsZero() {
		return earliest, true
	}

	if cfg.IsStarted(t.Status) {
		for _, field := range cfg.CandidateFields {
			if parsed, ok := ParseDate(t.RawDateFields[field]); ok {
				return parsed, true
			}
		}
	}

	return time.Time{}, false
}

// ApplyStartDates runs the resolver over the collection, setting StartDate
// on every ticket it can resolve and clearing it on the rest. Returns the
// number of tickets resolved.
func ApplyStartDates(tickets []*types.Ticket, cfg ResolverConfig) int {
	resolved := 0
	for _, t := range tickets {
		if start, ok := ResolveStartDate(t, cfg); ok {
			s := start
			t.StartDate = &s
			resolved++
		} else {
			t.StartDate = nil
		}
	}
	return resolved
}
