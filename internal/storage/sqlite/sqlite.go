// Package sqlite implements the storage interface using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/roadmapper/rdmp/internal/types"
	_ "modernc.org/sqlite"
)

// SchemaVersion is written to metadata on first open and checked by the
// version command for binary/database compatibility.
const SchemaVersion = "v1.0.0"

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	key TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	id TEXT NOT NULL DEFAULT '',
	project_key TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT '',
	assignee TEXT NOT NULL DEFAULT '',
	creator TEXT NOT NULL DEFAULT '',
	labels TEXT NOT NULL DEFAULT '[]',
	created_date DATETIME NOT NULL,
	updated_date DATETIME NOT NULL,
	due_date DATETIME,
	start_date DATETIME,
	raw_date_fields TEXT NOT NULL DEFAULT '{}',
	parent_issue_key TEXT NOT NULL DEFAULT '',
	epic_link TEXT NOT NULL DEFAULT '',
	sprint TEXT NOT NULL DEFAULT '',
	dependencies TEXT NOT NULL DEFAULT '[]',
	changelog TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_tickets_position ON tickets(position);
CREATE INDEX IF NOT EXISTS idx_tickets_project ON tickets(project_key);

CREATE TABLE IF NOT EXISTS presets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	filters TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	closed atomic.Bool
}

// New creates a new SQLite storage backend at path. The parent directory is
// created if missing; ":memory:" opens a shared in-memory database.
func New(path string) (*SQLiteStorage, error) {
	dbPath := path
	if path == ":memory:" {
		// Separate connections to ":memory:" get separate databases;
		// the shared-cache URL keeps the pool coherent.
		dbPath = "file::memory:?cache=shared"
	}

	if !strings.Contains(dbPath, ":memory:") {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	connStr := dbPath
	if strings.Contains(dbPath, "?") {
		connStr += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	} else {
		connStr += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &SQLiteStorage{db: db, dbPath: path}
	if abs, err := filepath.Abs(path); err == nil && path != ":memory:" {
		s.dbPath = abs
	}

	// Stamp the schema version once; existing databases keep theirs.
	existing, err := s.GetMetadata(context.Background(), "schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	if existing == "" {
		if err := s.SetMetadata(context.Background(), "schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

// ReplaceTickets swaps the entire ticket snapshot in one transaction.
// Stored position preserves input order for deterministic grouping.
func (s *SQLiteStorage) ReplaceTickets(ctx context.Context, tickets []*types.Ticket) error {
	for _, t := range tickets {
		if t == nil {
			return fmt.Errorf("nil ticket in snapshot")
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tickets"); err != nil {
		return fmt.Errorf("failed to clear tickets: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tickets (
			key, position, id, project_key, summary, status, priority,
			assignee, creator, labels, created_date, updated_date,
			due_date, start_date, raw_date_fields, parent_issue_key,
			epic_link, sprint, dependencies, changelog
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tickets {
		labels, err := json.Marshal(t.Labels)
		if err != nil {
			return fmt.Errorf("failed to marshal labels for %s: %w", t.Key, err)
		}
		rawFields, err := json.Marshal(t.RawDateFields)
		if err != nil {
			return fmt.Errorf("failed to marshal raw date fields for %s: %w", t.Key, err)
		}
		deps, err := json.Marshal(t.Dependencies)
		if err != nil {
			return fmt.Errorf("failed to marshal dependencies for %s: %w", t.Key, err)
		}
		changelog, err := json.Marshal(t.Changelog)
		if err != nil {
			return fmt.Errorf("failed to marshal changelog for %s: %w", t.Key, err)
		}

		var due, start interface{}
		if t.DueDate != nil {
			due = t.DueDate.UTC()
		}
		if t.StartDate != nil {
			start = t.StartDate.UTC()
		}

		if _, err := stmt.ExecContext(ctx,
			t.Key, i, t.ID, t.ProjectKey, t.Summary, t.Status, t.Priority,
			t.Assignee, t.Creator, string(labels), t.CreatedDate.UTC(), t.UpdatedDate.UTC(),
			due, start, string(rawFields), t.ParentIssueKey,
			t.EpicLink, t.Sprint, string(deps), string(changelog),
		); err != nil {
			return fmt.Errorf("failed to insert ticket %s: %w", t.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

const ticketColumns = `key, id, project_key, summary, status, priority,
	assignee, creator, labels, created_date, updated_date, due_date,
	start_date, raw_date_fields, parent_issue_key, epic_link, sprint,
	dependencies, changelog`

// ListTickets returns the snapshot in stored order.
func (s *SQLiteStorage) ListTickets(ctx context.Context) ([]*types.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*types.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// GetTicket returns one ticket by issue key.
func (s *SQLiteStorage) GetTicket(ctx context.Context, key string) (*types.Ticket, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE key = ?", key)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ticket %s not found", key)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTicket(row rowScanner) (*types.Ticket, error) {
	var t types.Ticket
	var labels, rawFields, deps, changelog string
	var due, start sql.NullTime

	err := row.Scan(
		&t.Key, &t.ID, &t.ProjectKey, &t.Summary, &t.Status, &t.Priority,
		&t.Assignee, &t.Creator, &labels, &t.CreatedDate, &t.UpdatedDate,
		&due, &start, &rawFields, &t.ParentIssueKey, &t.EpicLink, &t.Sprint,
		&deps, &changelog,
	)
	if err != nil {
		return nil, err
	}

	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	if start.Valid {
		st := start.Time
		t.StartDate = &st
	}
	if err := json.Unmarshal([]byte(labels), &t.Labels); err != nil {
		return nil, fmt.Errorf("corrupt labels for %s: %w", t.Key, err)
	}
	if err := json.Unmarshal([]byte(rawFields), &t.RawDateFields); err != nil {
		return nil, fmt.Errorf("corrupt raw date fields for %s: %w", t.Key, err)
	}
	if err := json.Unmarshal([]byte(deps), &t.Dependencies); err != nil {
		return nil, fmt.Errorf("corrupt dependencies for %s: %w", t.Key, err)
	}
	if err := json.Unmarshal([]byte(changelog), &t.Changelog); err != nil {
		return nil, fmt.Errorf("corrupt changelog for %s: %w", t.Key, err)
	}
	return &t, nil
}

// ListPresets returns saved presets in creation order.
func (s *SQLiteStorage) ListPresets(ctx context.Context) ([]*types.RoadmapPreset, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, filters, created_at FROM presets ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer rows.Close()

	var presets []*types.RoadmapPreset
	for rows.Next() {
		var p types.RoadmapPreset
		var filters string
		if err := rows.Scan(&p.ID, &p.Name, &filters, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(filters), &p.Filters); err != nil {
			return nil, fmt.Errorf("corrupt filters for preset %s: %w", p.ID, err)
		}
		presets = append(presets, &p)
	}
	return presets, rows.Err()
}

// SavePreset stores a named filter combination and returns it with its
// generated ID.
func (s *SQLiteStorage) SavePreset(ctx context.Context, name string, filters types.Filters) (*types.RoadmapPreset, error) {
	preset := &types.RoadmapPreset{
		ID:        uuid.New().String(),
		Name:      name,
		Filters:   filters,
		CreatedAt: time.Now().UTC(),
	}
	if err := preset.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	encoded, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filters: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO presets (id, name, filters, created_at) VALUES (?, ?, ?, ?)",
		preset.ID, preset.Name, string(encoded), preset.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert preset: %w", err)
	}
	return preset, nil
}

// DeletePreset removes a preset by ID.
func (s *SQLiteStorage) DeletePreset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM presets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("preset %s not found", id)
	}
	return nil
}

// SetMetadata stores an internal key-value pair.
func (s *SQLiteStorage) SetMetadata(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}

// GetMetadata retrieves an internal value; empty string when unset.
func (s *SQLiteStorage) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}
	return value, nil
}

// Close closes the database. Idempotent.
func (s *SQLiteStorage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// Path returns the absolute database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}
