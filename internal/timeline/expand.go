package timeline

// ExpansionState tracks which hierarchy groups are currently expanded.
// It lives independently of the ticket data: a key whose group disappears
// after refiltering stays in the set, inert, and takes effect again if the
// same key recurs. Nothing prunes the set on data changes.
type ExpansionState struct {
	expanded map[string]struct{}
}

// NewExpansionState returns a state with every group collapsed.
func NewExpansionState() *ExpansionState {
	return &ExpansionState{expanded: make(map[string]struct{})}
}

// Toggle flips one group between expanded and collapsed.
func (s *ExpansionState) Toggle(groupKey string) {
	if _, ok := s.expanded[groupKey]; ok {
		delete(s.expanded, groupKey)
	} else {
		s.expanded[groupKey] = struct{}{}
	}
}

// IsExpanded reports whether the group is expanded.
func (s *ExpansionState) IsExpanded(groupKey string) bool {
	_, ok := s.expanded[groupKey]
	return ok
}

// ExpandAll recomputes the set from the given hierarchy: every group that
// actually has something to reveal becomes expanded. Single-ticket groups
// with no parented member are left collapsed.
func (s *ExpansionState) ExpandAll(groups []*HierarchyGroup) {
	next := make(map[string]struct{})
	for _, g := range groups {
		if g.HasChildren() {
			next[g.Key] = struct{}{}
		}
	}
	s.expanded = next
}

// CollapseAll empties the set.
func (s *ExpansionState) CollapseAll() {
	s.expanded = make(map[string]struct{})
}
