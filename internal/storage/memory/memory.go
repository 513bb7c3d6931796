// Package memory implements the storage interface using in-memory data
// structures. This backs --no-db mode, where tickets are loaded from a JSON
// fixture at startup, and serves as the storage double in tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roadmapper/rdmp/internal/types"
)

// MemoryStorage implements the Storage interface using in-memory data structures.
type MemoryStorage struct {
	mu sync.RWMutex

	tickets  []*types.Ticket          // snapshot, in stored order
	byKey    map[string]*types.Ticket // Key -> Ticket
	presets  map[string]*types.RoadmapPreset
	presetID []string // insertion order of preset IDs
	metadata map[string]string
	closed   bool
}

// New creates a new in-memory storage backend.
func New() *MemoryStorage {
	return &MemoryStorage{
		byKey:    make(map[string]*types.Ticket),
		presets:  make(map[string]*types.RoadmapPreset),
		metadata: make(map[string]string),
	}
}

// ReplaceTickets swaps the entire snapshot. Input order is preserved and
// becomes the order ListTickets returns.
func (m *MemoryStorage) ReplaceTickets(ctx context.Context, tickets []*types.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range tickets {
		if t == nil {
			return fmt.Errorf("nil ticket in snapshot")
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	next := make([]*types.Ticket, 0, len(tickets))
	byKey := make(map[string]*types.Ticket, len(tickets))
	for _, t := range tickets {
		if _, exists := byKey[t.Key]; exists {
			return fmt.Errorf("duplicate ticket key %s", t.Key)
		}
		copied := *t
		next = append(next, &copied)
		byKey[copied.Key] = &copied
	}

	m.tickets = next
	m.byKey = byKey
	return nil
}

// ListTickets returns the snapshot in stored order.
func (m *MemoryStorage) ListTickets(ctx context.Context) ([]*types.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

// GetTicket returns one ticket by issue key.
func (m *MemoryStorage) GetTicket(ctx context.Context, key string) (*types.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.byKey[key]
	if !ok {
		return nil, fmt.Errorf("ticket %s not found", key)
	}
	copied := *t
	return &copied, nil
}

// ListPresets returns saved presets in creation order.
func (m *MemoryStorage) ListPresets(ctx context.Context) ([]*types.RoadmapPreset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.RoadmapPreset, 0, len(m.presetID))
	for _, id := range m.presetID {
		copied := *m.presets[id]
		out = append(out, &copied)
	}
	return out, nil
}

// SavePreset stores a named filter combination and returns it with its
// generated ID.
func (m *MemoryStorage) SavePreset(ctx context.Context, name string, filters types.Filters) (*types.RoadmapPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	preset := &types.RoadmapPreset{
		ID:        uuid.New().String(),
		Name:      name,
		Filters:   filters,
		CreatedAt: time.Now(),
	}
	if err := preset.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	m.presets[preset.ID] = preset
	m.presetID = append(m.presetID, preset.ID)

	copied := *preset
	return &copied, nil
}

// DeletePreset removes a preset by ID.
func (m *MemoryStorage) DeletePreset(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.presets[id]; !ok {
		return fmt.Errorf("preset %s not found", id)
	}
	delete(m.presets, id)
	for i, pid := range m.presetID {
		if pid == id {
			m.presetID = append(m.presetID[:i], m.presetID[i+1:]...)
			break
		}
	}
	return nil
}

// SetMetadata stores an internal key-value pair.
func (m *MemoryStorage) SetMetadata(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}

// GetMetadata retrieves an internal value; empty string when unset.
func (m *MemoryStorage) GetMetadata(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// Close marks the storage closed. Idempotent.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Path returns the backing file path, which is empty for memory storage.
func (m *MemoryStorage) Path() string {
	return ""
}
