package timeline

import (
	"github.com/roadmapper/rdmp/internal/types"
)

// StandaloneEpic keys the epic group holding tickets with no epic link.
// The parenthesized form sits outside the issue-key grammar (Jira epic
// links are "ABC-123" style), so it cannot collide with a real epic key.
const StandaloneEpic = "(standalone)"

// HierarchyGroup is a parent ticket plus its direct children, keyed by the
// parent's issue key. Derived on every grouping pass, never mutated in
// place, never persisted.
type HierarchyGroup struct {
	Key     string
	Members []*types.Ticket
}

// Head returns the group's display head: the first member with no parent
// key. When the parent itself was filtered out or missing from the source,
// the first member in input order stands in — callers must not assume the
// head has no parent.
func (g *HierarchyGroup) Head() *types.Ticket {
	for _, t := range g.Members {
		if !t.HasParent() {
			return t
		}
	}
	if len(g.Members) > 0 {
		return g.Members[0]
	}
	return nil
}

// Children returns the members filed under a parent key, in input order.
func (g *HierarchyGroup) Children() []*types.Ticket {
	var children []*types.Ticket
	for _, t := range g.Members {
		if t.HasParent() {
			children = append(children, t)
		}
	}
	return children
}

// HasChildren reports whether the group has anything to reveal when
// expanded: more than one member, or any member filed under a parent.
func (g *HierarchyGroup) HasChildren() bool {
	if len(g.Members) > 1 {
		return true
	}
	for _, t := range g.Members {
		if t.HasParent() {
			return true
		}
	}
	return false
}

// Group partitions tickets into parent/children hierarchy groups.
//
// The grouping key is the ticket's parent issue key, or its own key for
// top-level tickets. A dangling parent reference still creates a group
// under the referenced key; the orphan simply becomes that group's head.
// Group order and member order both follow first-seen input order, so an
// unchanged input always yields an identical result.
func Group(tickets []*types.Ticket) []*HierarchyGroup {
	byKey := make(map[string]*HierarchyGroup)
	var order []*HierarchyGroup

	for _, t := range tickets {
		key := t.ParentIssueKey
		if key == "" {
			key = t.Key
		}
		g, ok := byKey[key]
		if !ok {
			g = &HierarchyGroup{Key: key}
			byKey[key] = g
			order = append(order, g)
		}
		g.Members = append(g.Members, t)
	}

	return order
}

// EpicGroup is the optional second grouping level: an epic key and the
// hierarchy groups of the tickets linked to it.
type EpicGroup struct {
	Key    string
	Groups []*HierarchyGroup
}

// GroupByEpic partitions tickets by epic link, then builds the
// parent/children hierarchy within each epic. Tickets without an epic link
// collect under StandaloneEpic. Epic order follows first-seen input order.
func GroupByEpic(tickets []*types.Ticket) []*EpicGroup {
	byEpic := make(map[string][]*types.Ticket)
	var epicOrder []string

	for _, t := range tickets {
		key := t.EpicLink
		if key == "" {
			key = StandaloneEpic
		}
		if _, ok := byEpic[key]; !ok {
			epicOrder = append(epicOrder, key)
		}
		byEpic[key] = append(byEpic[key], t)
	}

	groups := make([]*EpicGroup, 0, len(epicOrder))
	for _, key := range epicOrder {
		groups = append(groups, &EpicGroup{
			Key:    key,
			Groups: Group(byEpic[key]),
		})
	}
	return groups
}
