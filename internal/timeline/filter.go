package timeline

import (
	"strings"

	"github.com/roadmapper/rdmp/internal/types"
)

// Apply narrows tickets to those matching every populated filter field.
// Empty fields impose no constraint, so Apply(tickets, Filters{}) returns
// the input collection unchanged in content and order. The input is never
// mutated, and applying identical filters to already-filtered output is a
// no-op.
func Apply(tickets []*types.Ticket, f types.Filters) []*types.Ticket {
	out := make([]*types.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t *types.Ticket, f types.Filters) bool {
	if len(f.Projects) > 0 && !containsExact(f.Projects, t.ProjectKey) {
		return false
	}
	if len(f.Labels) > 0 && !matchesAnyLabel(t.Labels, f.Labels) {
		return false
	}
	if len(f.Assignees) > 0 && (t.Assignee == "" || !containsExact(f.Assignees, t.Assignee)) {
		return false
	}
	if len(f.Statuses) > 0 && !containsExact(f.Statuses, t.Status) {
		return false
	}
	if f.DateRange != nil {
		// The range targets ticket origination time, not schedule; that is
		// why it tests the creation date rather than start or due dates.
		if start, ok := ParseDate(f.DateRange.Start); ok && t.CreatedDate.Before(start) {
			return false
		}
		if end, ok := ParseDate(f.DateRange.End); ok && t.CreatedDate.After(end) {
			return false
		}
	}
	return true
}

func containsExact(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// matchesAnyLabel implements the canonical label rule: a ticket passes if
// at least one of its labels case-insensitively contains any filter term.
// Containment (not equality) covers sources that deliver labels as raw CSV
// fragments rather than clean arrays.
func matchesAnyLabel(labels, terms []string) bool {
	for _, label := range labels {
		l := strings.ToLower(label)
		for _, term := range terms {
			if term == "" {
				continue
			}
			if strings.Contains(l, strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}
