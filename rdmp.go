// Package rdmp provides a minimal public API for embedding the roadmap
// engine in other Go programs.
//
// Most integrations only need the storage constructors plus the timeline
// package's layout pipeline: load a ticket snapshot, filter it, group it,
// and compute an axis and rows. The CLI under cmd/rdmp is a thin consumer
// of exactly this surface.
package rdmp

import (
	"os"
	"path/filepath"

	"github.com/roadmapper/rdmp/internal/storage"
	"github.com/roadmapper/rdmp/internal/storage/memory"
	"github.com/roadmapper/rdmp/internal/storage/sqlite"
	"github.com/roadmapper/rdmp/internal/timeline"
	"github.com/roadmapper/rdmp/internal/types"
)

// Core types for working with roadmap data
type (
	Ticket         = types.Ticket
	StatusChange   = types.StatusChange
	Filters        = types.Filters
	DateRange      = types.DateRange
	RoadmapPreset  = types.RoadmapPreset
	HierarchyGroup = timeline.HierarchyGroup
	EpicGroup      = timeline.EpicGroup
	Axis           = timeline.Axis
	AxisOptions    = timeline.AxisOptions
	Row            = timeline.Row
	ResolverConfig = timeline.ResolverConfig
	ExpansionState = timeline.ExpansionState
)

// StandaloneEpic is the bucket key for tickets without an epic link.
const StandaloneEpic = timeline.StandaloneEpic

// CanonicalDatabaseName is the default database file name inside .rdmp/.
const CanonicalDatabaseName = "rdmp.db"

// Storage is the snapshot store interface shared by the sqlite and
// in-memory backends.
type Storage = storage.Storage

// NewSQLiteStorage opens (creating if needed) a roadmap SQLite database.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return sqlite.New(dbPath)
}

// NewMemoryStorage returns an empty in-process store, useful for tests
// and one-shot pipelines that never touch disk.
func NewMemoryStorage() Storage {
	return memory.New()
}

// DefaultResolverConfig returns the stock started-status aliases and
// start-date candidate fields.
func DefaultResolverConfig() ResolverConfig {
	return timeline.DefaultResolverConfig()
}

// ApplyStartDates resolves each ticket's start date in place and returns
// how many tickets resolved to a date.
func ApplyStartDates(tickets []*Ticket, cfg ResolverConfig) int {
	return timeline.ApplyStartDates(tickets, cfg)
}

// Apply filters a ticket collection without mutating it.
func Apply(tickets []*Ticket, f Filters) []*Ticket {
	return timeline.Apply(tickets, f)
}

// Group partitions tickets into parent/child hierarchy groups in
// first-seen order.
func Group(tickets []*Ticket) []*HierarchyGroup {
	return timeline.Group(tickets)
}

// GroupByEpic buckets tickets into epic swimlanes, each holding its own
// hierarchy groups, with standalone tickets under StandaloneEpic.
func GroupByEpic(tickets []*Ticket) []*EpicGroup {
	return timeline.GroupByEpic(tickets)
}

// ComputeAxis derives the month-aligned timeline axis for a collection.
func ComputeAxis(tickets []*Ticket, opts AxisOptions) Axis {
	return timeline.ComputeAxis(tickets, opts)
}

// BuildRows flattens groups into renderable rows under the given axis
// and expansion state.
func BuildRows(groups []*HierarchyGroup, axis Axis, state *ExpansionState, cfg ResolverConfig) []Row {
	return timeline.BuildRows(groups, axis, state, cfg)
}

// NewExpansionState returns an empty hierarchy expansion state.
func NewExpansionState() *ExpansionState {
	return timeline.NewExpansionState()
}

// FindDatabasePath discovers the roadmap database using the standard
// search order:
//  1. $RDMP_DB environment variable
//  2. .rdmp/*.db in the current directory or an ancestor
//  3. ~/.rdmp/rdmp.db (only if it exists)
//
// Returns empty string when nothing is found.
func FindDatabasePath() string {
	if envDB := os.Getenv("RDMP_DB"); envDB != "" {
		return envDB
	}

	if found := findDatabaseInTree(); found != "" {
		return found
	}

	if home, err := os.UserHomeDir(); err == nil {
		defaultDB := filepath.Join(home, ".rdmp", CanonicalDatabaseName)
		if _, err := os.Stat(defaultDB); err == nil {
			return defaultDB
		}
	}

	return ""
}

// findDatabaseInTree walks from the current directory toward the root
// looking for .rdmp/*.db.
func findDatabaseInTree() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		matches, err := filepath.Glob(filepath.Join(dir, ".rdmp", "*.db"))
		if err == nil && len(matches) > 0 {
			return matches[0]
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
