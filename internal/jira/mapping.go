package jira

import (
	"fmt"
	"time"

	"github.com/roadmapper/rdmp/internal/types"
)

// startDateCandidates are the raw fields carried through to the ticket
// snapshot so the start-date resolver can inspect them later without a
// round trip back to Jira.
var startDateCandidates = []string{"startdate", "customfield_10015", "customfield_10020"}

const epicLinkField = "customfield_10014"

// MapIssue converts a raw search issue into a ticket snapshot.
func MapIssue(issue Issue) (*types.Ticket, error) {
	if issue.Key == "" {
		return nil, fmt.Errorf("jira: issue %s has no key", issue.ID)
	}
	f := issue.Fields

	t := &types.Ticket{
		ID:             issue.ID,
		Key:            issue.Key,
		ProjectKey:     nestedString(f, "project", "key"),
		Summary:        stringField(f, "summary"),
		Status:         nestedString(f, "status", "name"),
		Priority:       nestedString(f, "priority", "name"),
		Labels:         stringSliceField(f, "labels"),
		Assignee:       nestedString(f, "assignee", "displayName"),
		Creator:        nestedString(f, "creator", "displayName"),
		ParentIssueKey: nestedString(f, "parent", "key"),
		EpicLink:       stringField(f, epicLinkField),
		Sprint:         sprintName(f["customfield_10016"]),
	}

	if created, ok := parseTimestamp(stringField(f, "created")); ok {
		t.CreatedDate = created
	}
	if updated, ok := parseTimestamp(stringField(f, "updated")); ok {
		t.UpdatedDate = updated
	} else {
		t.UpdatedDate = t.CreatedDate
	}
	if due, ok := parseTimestamp(stringField(f, "duedate")); ok {
		t.DueDate = &due
	}

	for _, field := range startDateCandidates {
		if raw := stringField(f, field); raw != "" {
			if t.RawDateFields == nil {
				t.RawDateFields = make(map[string]string)
			}
			t.RawDateFields[field] = raw
		}
	}

	t.Dependencies = issueLinkKeys(f["issuelinks"])
	t.Changelog = statusTransitions(issue.Changelog)

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("jira: issue %s: %w", issue.Key, err)
	}
	return t, nil
}

// MapIssues converts every issue, failing on the first bad one so a sync
// never writes a partially mapped snapshot.
func MapIssues(issues []Issue) ([]*types.Ticket, error) {
	tickets := make([]*types.Ticket, 0, len(issues))
	for _, issue := range issues {
		t, err := MapIssue(issue)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// statusTransitions flattens changelog histories into status changes,
// ignoring every non-status item.
func statusTransitions(cl *Changelog) []types.StatusChange {
	if cl == nil {
		return nil
	}
	var changes []types.StatusChange
	for _, h := range cl.Histories {
		at, ok := parseTimestamp(h.Created)
		if !ok {
			continue
		}
		for _, item := range h.Items {
			if item.Field != "status" {
				continue
			}
			changes = append(changes, types.StatusChange{
				From: item.FromString,
				To:   item.ToString,
				At:   at,
			})
		}
	}
	return changes
}

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func stringField(f map[string]interface{}, key string) string {
	s, _ := f[key].(string)
	return s
}

func nestedString(f map[string]interface{}, key, sub string) string {
	m, _ := f[key].(map[string]interface{})
	if m == nil {
		return ""
	}
	s, _ := m[sub].(string)
	return s
}

func stringSliceField(f map[string]interface{}, key string) []string {
	raw, _ := f[key].([]interface{})
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// sprintName pulls a display name out of the sprint field, which Jira
// serves either as objects or as legacy toString blobs. Unrecognized
// shapes map to empty rather than failing the issue.
func sprintName(raw interface{}) string {
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return ""
	}
	// Last entry is the most recent sprint.
	switch v := list[len(list)-1].(type) {
	case map[string]interface{}:
		s, _ := v["name"].(string)
		return s
	case string:
		return parseLegacySprintName(v)
	}
	return ""
}

// parseLegacySprintName extracts name=... from the old
// "com.atlassian.greenhopper...[id=1,name=Sprint 5,...]" encoding.
func parseLegacySprintName(s string) string {
	const marker = "name="
	start := -1
	for i := 0; i+len(marker) <= len(s); i++ {
		if s[i:i+len(marker)] == marker {
			start = i + len(marker)
			break
		}
	}
	if start < 0 {
		return ""
	}
	end := start
	for end < len(s) && s[end] != ',' && s[end] != ']' {
		end++
	}
	return s[start:end]
}

// issueLinkKeys collects the keys of linked issues in both directions.
func issueLinkKeys(raw interface{}) []string {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var keys []string
	for _, v := range list {
		link, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		for _, dir := range []string{"inwardIssue", "outwardIssue"} {
			if k := nestedString(link, dir, "key"); k != "" {
				keys = append(keys, k)
			}
		}
	}
	return keys
}
