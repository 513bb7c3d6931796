package memory

import (
	"context"
	"testing"
	"time"

	"github.com/roadmapper/rdmp/internal/types"
)

func setupTestMemory(t *testing.T) *MemoryStorage {
	t.Helper()
	return New()
}

func sampleTickets() []*types.Ticket {
	created := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	return []*types.Ticket{
		{Key: "PROJ-2", ProjectKey: "PROJ", Summary: "Second", CreatedDate: created, UpdatedDate: created},
		{Key: "PROJ-1", ProjectKey: "PROJ", Summary: "First", CreatedDate: created, UpdatedDate: created},
		{Key: "OPS-9", ProjectKey: "OPS", Summary: "Ops", CreatedDate: created, UpdatedDate: created},
	}
}

func TestReplaceAndListPreservesOrder(t *testing.T) {
	store := setupTestMemory(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.ReplaceTickets(ctx, sampleTickets()); err != nil {
		t.Fatalf("ReplaceTickets failed: %v", err)
	}

	got, err := store.ListTickets(ctx)
	if err != nil {
		t.Fatalf("ListTickets failed: %v", err)
	}
	want := []string{"PROJ-2", "PROJ-1", "OPS-9"}
	if len(got) != len(want) {
		t.Fatalf("got %d tickets, want %d", len(got), len(want))
	}
	for i, k := range want {
		if got[i].Key != k {
			t.Errorf("tickets[%d].Key = %s, want %s (stored order)", i, got[i].Key, k)
		}
	}
}

func TestReplaceTicketsSwapsSnapshot(t *testing.T) {
	store := setupTestMemory(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.ReplaceTickets(ctx, sampleTickets()); err != nil {
		t.Fatalf("ReplaceTickets failed: %v", err)
	}
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := store.ReplaceTickets(ctx, []*types.Ticket{
		{Key: "NEW-1", CreatedDate: created, UpdatedDate: created},
	}); err != nil {
		t.Fatalf("second ReplaceTickets failed: %v", err)
	}

	got, _ := store.ListTickets(ctx)
	if len(got) != 1 || got[0].Key != "NEW-1" {
		t.Errorf("snapshot should be fully replaced, got %d tickets", len(got))
	}
	if _, err := store.GetTicket(ctx, "PROJ-1"); err == nil {
		t.Error("old ticket should be gone after replace")
	}
}

func TestReplaceTicketsRejectsDuplicates(t *testing.T) {
	store := setupTestMemory(t)
	defer store.Close()
	ctx := context.Background()

	created := time.Now()
	err := store.ReplaceTickets(ctx, []*types.Ticket{
		{Key: "DUP-1", CreatedDate: created, UpdatedDate: created},
		{Key: "DUP-1", CreatedDate: created, UpdatedDate: created},
	})
	if err == nil {
		t.Error("duplicate keys should be rejected")
	}
}

func TestListTicketsReturnsCopies(t *testing.T) {
	store := setupTestMemory(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.ReplaceTickets(ctx, sampleTickets()); err != nil {
		t.Fatalf("ReplaceTickets failed: %v", err)
	}

	first, _ := store.ListTickets(ctx)
	first[0].Summary = "mutated"
	second, _ := store.ListTickets(ctx)
	if second[0].Summary == "mutated" {
		t.Error("callers must not be able to mutate stored tickets")
	}
}

func TestGetTicket(t *testing.T) {
	store := setupTestMemory(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.ReplaceTickets(ctx, sampleTickets()); err != nil {
		t.Fatalf("ReplaceTickets failed: %v", err)
	}

	got, err := store.GetTicket(ctx, "OPS-9")
	if err != nil {
		t.Fatalf("GetTicket failed: %v", err)
	}
	if got.Summary != "Ops" {
		t.Errorf("Summary = %q, want %q", got.Summary, "Ops")
	}

	if _, err := store.GetTicket(ctx, "NOPE-1"); err == nil {
		t.Error("missing ticket should return an error")
	}
}

func TestPresetLifecycle(t *testing.T) {
	store := setupTestMemory(t)
	defer store.Close()
	ctx := context.Background()

	filters := types.Filters{
		Labels:   []string{"security"},
		Statuses: []string{"In Progress"},
	}
	preset, err := store.SavePreset(ctx, "Security work", filters)
	if err != nil {
		t.Fatalf("SavePreset failed: %v", err)
	}
	if preset.ID == "" {
		t.Error("preset ID should be generated")
	}

	if _, err := store.SavePreset(ctx, "", types.Filters{}); err == nil {
		t.Error("unnamed preset should be rejected")
	}

	list, err := store.ListPresets(ctx)
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d presets, want 1", len(list))
	}
	// Filters round-trip verbatim.
	if len(list[0].Filters.Labels) != 1 || list[0].Filters.Labels[0] != "security" {
		t.Errorf("filters did not round-trip: %+v", list[0].Filters)
	}

	if err := store.DeletePreset(ctx, preset.ID); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}
	if err := store.DeletePreset(ctx, preset.ID); err == nil {
		t.Error("deleting a missing preset should error")
	}
	list, _ = store.ListPresets(ctx)
	if len(list) != 0 {
		t.Errorf("got %d presets after delete, want 0", len(list))
	}
}

func TestMetadata(t *testing.T) {
	store := setupTestMemory(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.SetMetadata(ctx, "schema_version", "v1.0.0"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	got, err := store.GetMetadata(ctx, "schema_version")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if got != "v1.0.0" {
		t.Errorf("metadata = %q, want %q", got, "v1.0.0")
	}

	missing, err := store.GetMetadata(ctx, "absent")
	if err != nil || missing != "" {
		t.Errorf("absent metadata = (%q, %v), want empty and nil", missing, err)
	}
}
