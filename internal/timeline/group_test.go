package timeline

import (
	"reflect"
	"testing"

	"github.com/roadmapper/rdmp/internal/types"
)

func ticket(key, parent, epic string) *types.Ticket {
	return &types.Ticket{
		Key:            key,
		ParentIssueKey: parent,
		EpicLink:       epic,
		CreatedDate:    date("2024-01-01"),
		UpdatedDate:    date("2024-01-02"),
	}
}

func TestGroupParentAndChild(t *testing.T) {
	a := ticket("A", "", "")
	b := ticket("B", "A", "")

	groups := Group([]*types.Ticket{a, b})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Key != "A" {
		t.Errorf("group key = %q, want %q", g.Key, "A")
	}
	if g.Head() != a {
		t.Errorf("head = %v, want A", g.Head().Key)
	}
	children := g.Children()
	if len(children) != 1 || children[0] != b {
		t.Errorf("children = %v, want [B]", children)
	}
}

func TestGroupDanglingParent(t *testing.T) {
	x := ticket("X", "MISSING", "")

	groups := Group([]*types.Ticket{x})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Key != "MISSING" {
		t.Errorf("group key = %q, want %q", g.Key, "MISSING")
	}
	// The orphan stands in as the display head even though it has a parent.
	if g.Head() != x {
		t.Error("orphan should be its own group head")
	}
	if !g.Head().HasParent() {
		t.Error("fallback head keeps its parent reference")
	}
}

func TestGroupPartitionIsExact(t *testing.T) {
	tickets := []*types.Ticket{
		ticket("A", "", ""),
		ticket("B", "A", ""),
		ticket("C", "A", ""),
		ticket("D", "", ""),
		ticket("E", "MISSING", ""),
	}

	groups := Group(tickets)

	seen := make(map[string]int)
	total := 0
	for _, g := range groups {
		for _, m := range g.Members {
			seen[m.Key]++
			total++
		}
	}
	if total != len(tickets) {
		t.Errorf("grouped %d tickets, want %d", total, len(tickets))
	}
	for _, in := range tickets {
		if seen[in.Key] != 1 {
			t.Errorf("ticket %s appears %d times, want exactly once", in.Key, seen[in.Key])
		}
	}
}

func TestGroupOrderIsDeterministic(t *testing.T) {
	tickets := []*types.Ticket{
		ticket("B1", "B", ""),
		ticket("A", "", ""),
		ticket("B", "", ""),
		ticket("A1", "A", ""),
	}

	keys := func(groups []*HierarchyGroup) []string {
		var out []string
		for _, g := range groups {
			out = append(out, g.Key)
		}
		return out
	}

	first := keys(Group(tickets))
	want := []string{"B", "A"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("group order = %v, want first-seen order %v", first, want)
	}

	// Re-running on unchanged input yields an identical result.
	for i := 0; i < 10; i++ {
		if got := keys(Group(tickets)); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: order %v != %v", i, got, first)
		}
	}
}

func TestGroupSingleTicketIsOwnHead(t *testing.T) {
	a := ticket("A", "", "")
	groups := Group([]*types.Ticket{a})
	if len(groups) != 1 || groups[0].Key != "A" || groups[0].Head() != a {
		t.Errorf("standalone ticket should head its own group")
	}
	if groups[0].HasChildren() {
		t.Error("single ungrouped ticket has nothing to reveal")
	}
}

func TestGroupByEpic(t *testing.T) {
	tickets := []*types.Ticket{
		ticket("A", "", "EPIC-1"),
		ticket("B", "A", "EPIC-1"),
		ticket("C", "", ""),
		ticket("D", "", "EPIC-2"),
	}

	epics := GroupByEpic(tickets)
	if len(epics) != 3 {
		t.Fatalf("got %d epic groups, want 3", len(epics))
	}
	if epics[0].Key != "EPIC-1" || epics[1].Key != StandaloneEpic || epics[2].Key != "EPIC-2" {
		t.Errorf("epic order = [%s %s %s], want first-seen", epics[0].Key, epics[1].Key, epics[2].Key)
	}
	if len(epics[0].Groups) != 1 || len(epics[0].Groups[0].Members) != 2 {
		t.Error("EPIC-1 should hold one hierarchy group with two members")
	}
	if len(epics[1].Groups) != 1 || epics[1].Groups[0].Key != "C" {
		t.Error("standalone epic should hold C's group")
	}
}

func TestGroupEmptyInput(t *testing.T) {
	if groups := Group(nil); len(groups) != 0 {
		t.Errorf("Group(nil) = %v, want empty", groups)
	}
	if epics := GroupByEpic(nil); len(epics) != 0 {
		t.Errorf("GroupByEpic(nil) = %v, want empty", epics)
	}
}
