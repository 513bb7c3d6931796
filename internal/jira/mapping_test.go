package jira

import (
	"encoding/json"
	"testing"
	"time"
)

const sampleIssueJSON = `{
	"id": "10042",
	"key": "PROJ-42",
	"fields": {
		"summary": "Ship the reporting pipeline",
		"project": {"key": "PROJ"},
		"status": {"name": "In Progress"},
		"priority": {"name": "High"},
		"assignee": {"displayName": "Dana Smith"},
		"creator": {"displayName": "Kim Lee"},
		"labels": ["backend", "reporting"],
		"created": "2024-01-05T09:30:00.000-0700",
		"updated": "2024-02-01T12:00:00.000-0700",
		"duedate": "2024-03-15",
		"startdate": "2024-01-10",
		"customfield_10015": "2024-01-11",
		"customfield_10014": "EPIC-7",
		"customfield_10016": [{"name": "Sprint 12"}],
		"parent": {"key": "PROJ-40"},
		"issuelinks": [
			{"inwardIssue": {"key": "PROJ-30"}},
			{"outwardIssue": {"key": "OPS-9"}}
		]
	},
	"changelog": {
		"histories": [
			{
				"created": "2024-01-12T08:00:00.000-0700",
				"items": [
					{"field": "assignee", "fromString": "Kim Lee", "toString": "Dana Smith"},
					{"field": "status", "fromString": "To Do", "toString": "In Progress"}
				]
			}
		]
	}
}`

func TestMapIssue(t *testing.T) {
	var issue Issue
	if err := json.Unmarshal([]byte(sampleIssueJSON), &issue); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	ticket, err := MapIssue(issue)
	if err != nil {
		t.Fatalf("MapIssue() error = %v", err)
	}

	if ticket.Key != "PROJ-42" {
		t.Errorf("Key = %q, want PROJ-42", ticket.Key)
	}
	if ticket.ProjectKey != "PROJ" {
		t.Errorf("ProjectKey = %q, want PROJ", ticket.ProjectKey)
	}
	if ticket.Status != "In Progress" {
		t.Errorf("Status = %q, want In Progress", ticket.Status)
	}
	if ticket.Assignee != "Dana Smith" {
		t.Errorf("Assignee = %q, want Dana Smith", ticket.Assignee)
	}
	if len(ticket.Labels) != 2 || ticket.Labels[0] != "backend" {
		t.Errorf("Labels = %v, want [backend reporting]", ticket.Labels)
	}
	if ticket.ParentIssueKey != "PROJ-40" {
		t.Errorf("ParentIssueKey = %q, want PROJ-40", ticket.ParentIssueKey)
	}
	if ticket.EpicLink != "EPIC-7" {
		t.Errorf("EpicLink = %q, want EPIC-7", ticket.EpicLink)
	}
	if ticket.Sprint != "Sprint 12" {
		t.Errorf("Sprint = %q, want Sprint 12", ticket.Sprint)
	}
	if ticket.DueDate == nil || !ticket.DueDate.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DueDate = %v, want 2024-03-15", ticket.DueDate)
	}
	if ticket.CreatedDate.IsZero() {
		t.Error("CreatedDate should be set")
	}
}

func TestMapIssueRawDateFields(t *testing.T) {
	var issue Issue
	if err := json.Unmarshal([]byte(sampleIssueJSON), &issue); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	ticket, err := MapIssue(issue)
	if err != nil {
		t.Fatalf("MapIssue() error = %v", err)
	}

	want := map[string]string{
		"startdate":         "2024-01-10",
		"customfield_10015": "2024-01-11",
	}
	for field, value := range want {
		if got := ticket.RawDateFields[field]; got != value {
			t.Errorf("RawDateFields[%s] = %q, want %q", field, got, value)
		}
	}
	if _, ok := ticket.RawDateFields["customfield_10020"]; ok {
		t.Error("absent candidate field should not appear in RawDateFields")
	}
}

func TestMapIssueChangelog(t *testing.T) {
	var issue Issue
	if err := json.Unmarshal([]byte(sampleIssueJSON), &issue); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	ticket, err := MapIssue(issue)
	if err != nil {
		t.Fatalf("MapIssue() error = %v", err)
	}

	if len(ticket.Changelog) != 1 {
		t.Fatalf("Changelog length = %d, want 1 (non-status items dropped)", len(ticket.Changelog))
	}
	change := ticket.Changelog[0]
	if change.From != "To Do" || change.To != "In Progress" {
		t.Errorf("transition = %q -> %q, want To Do -> In Progress", change.From, change.To)
	}
	if change.At.IsZero() {
		t.Error("transition timestamp should be set")
	}
}

func TestMapIssueDependencies(t *testing.T) {
	var issue Issue
	if err := json.Unmarshal([]byte(sampleIssueJSON), &issue); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	ticket, err := MapIssue(issue)
	if err != nil {
		t.Fatalf("MapIssue() error = %v", err)
	}

	want := []string{"PROJ-30", "OPS-9"}
	if len(ticket.Dependencies) != len(want) {
		t.Fatalf("Dependencies = %v, want %v", ticket.Dependencies, want)
	}
	for i, k := range want {
		if ticket.Dependencies[i] != k {
			t.Errorf("Dependencies[%d] = %q, want %q", i, ticket.Dependencies[i], k)
		}
	}
}

func TestMapIssueMinimal(t *testing.T) {
	issue := Issue{
		ID:  "1",
		Key: "X-1",
		Fields: map[string]interface{}{
			"summary": "Bare issue",
			"status":  map[string]interface{}{"name": "To Do"},
			"created": "2024-01-01T00:00:00.000-0700",
		},
	}

	ticket, err := MapIssue(issue)
	if err != nil {
		t.Fatalf("MapIssue() error = %v", err)
	}
	if ticket.Assignee != "" {
		t.Errorf("Assignee = %q, want empty for unassigned", ticket.Assignee)
	}
	if ticket.DueDate != nil {
		t.Error("DueDate should be nil when duedate is absent")
	}
	if len(ticket.RawDateFields) != 0 {
		t.Errorf("RawDateFields = %v, want empty", ticket.RawDateFields)
	}
	if len(ticket.Changelog) != 0 {
		t.Errorf("Changelog = %v, want empty", ticket.Changelog)
	}
}

func TestMapIssueMissingKey(t *testing.T) {
	_, err := MapIssue(Issue{ID: "9", Fields: map[string]interface{}{}})
	if err == nil {
		t.Fatal("MapIssue() should fail for an issue without a key")
	}
}

func TestMapIssuesFailsFast(t *testing.T) {
	issues := []Issue{
		{ID: "1", Key: "A-1", Fields: map[string]interface{}{"summary": "ok", "status": map[string]interface{}{"name": "To Do"}, "created": "2024-01-01T00:00:00.000-0700"}},
		{ID: "2", Fields: map[string]interface{}{}},
	}
	if _, err := MapIssues(issues); err == nil {
		t.Fatal("MapIssues() should fail when any issue is unmappable")
	}
}

func TestSprintNameLegacyEncoding(t *testing.T) {
	raw := []interface{}{
		"com.atlassian.greenhopper.service.sprint.Sprint@1f[id=4,rapidViewId=2,state=CLOSED,name=Sprint 4,startDate=...]",
		"com.atlassian.greenhopper.service.sprint.Sprint@2a[id=5,rapidViewId=2,state=ACTIVE,name=Sprint 5,startDate=...]",
	}
	if got := sprintName(raw); got != "Sprint 5" {
		t.Errorf("sprintName() = %q, want Sprint 5", got)
	}
}

func TestBuildJQL(t *testing.T) {
	tests := []struct {
		name     string
		projects []string
		want     string
	}{
		{"no projects", nil, "ORDER BY created DESC"},
		{"one project", []string{"PROJ"}, `(project = "PROJ") ORDER BY created DESC`},
		{"two projects", []string{"PROJ", "OPS"}, `(project = "PROJ" OR project = "OPS") ORDER BY created DESC`},
		{"blank entries skipped", []string{"", " ", "PROJ"}, `(project = "PROJ") ORDER BY created DESC`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildJQL(tt.projects); got != tt.want {
				t.Errorf("BuildJQL(%v) = %q, want %q", tt.projects, got, tt.want)
			}
		})
	}
}
