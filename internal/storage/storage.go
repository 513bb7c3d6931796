// Package storage defines the interface for roadmap storage backends.
//
// The core timeline computations never touch storage directly; they consume
// a materialized ticket slice. Storage is the injected port behind the CLI:
// it holds the synced ticket snapshot, the named filter presets, and a small
// metadata key-value area. Presets are single-writer, last-write-wins.
package storage

import (
	"context"

	"github.com/roadmapper/rdmp/internal/types"
)

// Storage defines the interface for roadmap storage backends.
type Storage interface {
	// Tickets. ReplaceTickets swaps the entire snapshot atomically;
	// ListTickets returns it in the order it was stored, which downstream
	// grouping relies on for determinism.
	ReplaceTickets(ctx context.Context, tickets []*types.Ticket) error
	ListTickets(ctx context.Context) ([]*types.Ticket, error)
	GetTicket(ctx context.Context, key string) (*types.Ticket, error)

	// Presets
	ListPresets(ctx context.Context) ([]*types.RoadmapPreset, error)
	SavePreset(ctx context.Context, name string, filters types.Filters) (*types.RoadmapPreset, error)
	DeletePreset(ctx context.Context, id string) error

	// Metadata (for internal state like the schema version)
	SetMetadata(ctx context.Context, key, value string) error
	GetMetadata(ctx context.Context, key string) (string, error)

	// Lifecycle
	Close() error

	// Backing path, empty for in-memory backends
	Path() string
}
