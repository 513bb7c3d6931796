package types

import (
	"fmt"
	"time"
)

// Ticket represents one trackable unit of work pulled from the issue tracker.
//
// Status is an open-ended string rather than an enum: Jira workflows define
// arbitrary status names, and unrecognized ones must degrade gracefully
// downstream (they render with the default color, never disappear).
type Ticket struct {
	ID             string            `json:"id"`
	Key            string            `json:"key"`
	ProjectKey     string            `json:"project_key"`
	Summary        string            `json:"summary"`
	Status         string            `json:"status"`
	Priority       string            `json:"priority,omitempty"`
	Labels         []string          `json:"labels,omitempty"`
	Assignee       string            `json:"assignee,omitempty"`
	Creator        string            `json:"creator,omitempty"`
	CreatedDate    time.Time         `json:"created_date"`
	UpdatedDate    time.Time         `json:"updated_date"`
	DueDate        *time.Time        `json:"due_date,omitempty"`
	ParentIssueKey string            `json:"parent_issue_key,omitempty"`
	EpicLink       string            `json:"epic_link,omitempty"`
	Sprint         string            `json:"sprint,omitempty"`
	Dependencies   []string          `json:"dependencies,omitempty"`

	// StartDate is the resolved work-start instant. It is not authoritative
	// ingestion data: the resolver derives it from the changelog or from
	// RawDateFields, and leaves it nil for work that has not started.
	StartDate *time.Time `json:"start_date,omitempty"`

	// RawDateFields holds source-specific start-date candidates keyed by
	// their raw field name (e.g. "customfield_10015"). Which names are
	// consulted, and in what order, is resolver configuration.
	RawDateFields map[string]string `json:"raw_date_fields,omitempty"`

	// Changelog carries the ticket's status-transition history when the
	// ingestion source provides one.
	Changelog []StatusChange `json:"changelog,omitempty"`
}

// Validate checks that the ticket carries the fields every collection
// member must have.
func (t *Ticket) Validate() error {
	if t.Key == "" {
		return fmt.Errorf("ticket key is required")
	}
	if t.CreatedDate.IsZero() {
		return fmt.Errorf("ticket %s: created date is required", t.Key)
	}
	if t.UpdatedDate.IsZero() {
		return fmt.Errorf("ticket %s: updated date is required", t.Key)
	}
	return nil
}

// HasParent reports whether the ticket is filed under another issue.
func (t *Ticket) HasParent() bool {
	return t.ParentIssueKey != ""
}

// StatusChange is one status transition from a ticket's changelog.
type StatusChange struct {
	From string    `json:"from,omitempty"`
	To   string    `json:"to"`
	At   time.Time `json:"at"`
}

// Filters narrows a ticket collection. Every field is optional; an empty
// field imposes no constraint. Populated fields combine as a conjunction.
type Filters struct {
	Projects  []string   `json:"projects,omitempty"`
	Labels    []string   `json:"labels,omitempty"`
	Assignees []string   `json:"assignees,omitempty"`
	Statuses  []string   `json:"statuses,omitempty"`
	DateRange *DateRange `json:"date_range,omitempty"`
}

// DateRange bounds tickets by creation date. Both ends are optional and
// expressed as date strings ("2006-01-02" or RFC3339) so the value
// round-trips through preset storage unchanged.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// IsZero reports whether no filter field is populated.
func (f Filters) IsZero() bool {
	return len(f.Projects) == 0 &&
		len(f.Labels) == 0 &&
		len(f.Assignees) == 0 &&
		len(f.Statuses) == 0 &&
		(f.DateRange == nil || (f.DateRange.Start == "" && f.DateRange.End == ""))
}

// RoadmapPreset is a named, saved combination of filter values. Presets are
// immutable once created; the only mutation is deletion.
type RoadmapPreset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Filters   Filters   `json:"filters"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks preset fields before storage.
func (p *RoadmapPreset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	return nil
}
