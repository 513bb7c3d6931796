// Package jira is the ticket ingestion collaborator: a small REST client
// for the Jira Cloud search API plus the mapping from raw issue JSON to the
// roadmap's ticket type. Nothing downstream of the storage snapshot knows
// this package exists.
package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// searchFields are the issue fields the roadmap needs, including the
// start-date candidate custom fields and the epic link.
const searchFields = "summary,status,assignee,creator,labels,created,updated,duedate," +
	"startdate,customfield_10015,customfield_10020,customfield_10014,customfield_10016," +
	"issuelinks,parent,project,priority"

const defaultPageSize = 100

// Config holds the connection settings for one Jira instance.
type Config struct {
	BaseURL string
	Email   string
	Token   string // API token (basic auth) or PAT (bearer)

	// PageSize bounds each search page; zero means defaultPageSize.
	PageSize int

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to a Jira Cloud instance.
type Client struct {
	baseURL  string
	email    string
	token    string
	pageSize int
	http     *http.Client
}

// NewClient builds a client from config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("jira: base URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		email:    cfg.Email,
		token:    cfg.Token,
		pageSize: pageSize,
		http:     httpClient,
	}, nil
}

// BuildJQL assembles the search query: an optional project restriction,
// ordered by creation date descending like the source dashboard.
func BuildJQL(projects []string) string {
	var clauses []string
	for _, p := range projects {
		p = strings.TrimSpace(p)
		if p != "" {
			clauses = append(clauses, fmt.Sprintf("project = %q", p))
		}
	}
	if len(clauses) == 0 {
		return "ORDER BY created DESC"
	}
	return "(" + strings.Join(clauses, " OR ") + ") ORDER BY created DESC"
}

type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue is one raw issue from the search API. Fields stays loosely typed:
// which custom fields matter is resolver configuration, not schema.
type Issue struct {
	ID        string                 `json:"id"`
	Key       string                 `json:"key"`
	Fields    map[string]interface{} `json:"fields"`
	Changelog *Changelog             `json:"changelog,omitempty"`
}

// Changelog is the status-transition history attached via expand=changelog.
type Changelog struct {
	Histories []History `json:"histories"`
}

// History is one changelog entry.
type History struct {
	Created string        `json:"created"`
	Items   []HistoryItem `json:"items"`
}

// HistoryItem is one field change within a history entry.
type HistoryItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// SearchAll pages through every issue matching jql, with the changelog
// expanded for start-date resolution.
func (c *Client) SearchAll(ctx context.Context, jql string) ([]Issue, error) {
	var issues []Issue
	startAt := 0
	for {
		page, err := c.search(ctx, jql, startAt)
		if err != nil {
			return nil, err
		}
		issues = append(issues, page.Issues...)
		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			return issues, nil
		}
	}
}

func (c *Client) search(ctx context.Context, jql string, startAt int) (*searchResponse, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("startAt", fmt.Sprint(startAt))
	q.Set("maxResults", fmt.Sprint(c.pageSize))
	q.Set("fields", searchFields)
	q.Set("expand", "changelog")
	u := c.baseURL + "/rest/api/2/search?" + q.Encode()

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.email != "" {
			req.SetBasicAuth(c.email, c.token)
		} else if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 300 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err := fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
			// Retry only throttling and server errors.
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = err
				continue
			}
			return nil, err
		}

		var out searchResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if decodeErr != nil {
			return nil, fmt.Errorf("jira: decoding search response: %w", decodeErr)
		}
		return &out, nil
	}
	return nil, lastErr
}
