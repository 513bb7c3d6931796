package timeline

import (
	"github.com/roadmapper/rdmp/internal/types"
)

// Row is one rendered line of the timeline: a ticket plus the coordinates
// the presentation layer needs. Depth 0 is a group head, depth 1 a child.
type Row struct {
	Ticket       *types.Ticket `json:"ticket"`
	GroupKey     string        `json:"group_key"`
	Depth        int           `json:"depth"`
	Expandable   bool          `json:"expandable"`
	Expanded     bool          `json:"expanded"`
	HasBar       bool          `json:"has_bar"`
	LeftPercent  float64       `json:"left_percent"`
	WidthPercent float64       `json:"width_percent"`
	ColorClass   string        `json:"color_class"`
	DuePercent   *float64      `json:"due_percent,omitempty"`
}

// BuildRows flattens hierarchy groups into renderable rows against the
// axis. Children appear only under groups the state marks expanded.
//
// A ticket gets a bar when it has a resolved start date or its status says
// work is underway. In the latter case the bar's left edge falls back to
// the creation date — a display placement only; the resolver itself never
// substitutes creation for start.
func BuildRows(groups []*HierarchyGroup, axis Axis, state *ExpansionState, cfg ResolverConfig) []Row {
	var rows []Row
	for _, g := range groups {
		head := g.Head()
		if head == nil {
			continue
		}
		expandable := g.HasChildren()
		expanded := expandable && state != nil && state.IsExpanded(g.Key)

		headRow := buildRow(head, g.Key, 0, axis, cfg)
		headRow.Expandable = expandable
		headRow.Expanded = expanded
		rows = append(rows, headRow)

		if !expanded {
			continue
		}
		for _, child := range g.Children() {
			if child == head {
				continue
			}
			rows = append(rows, buildRow(child, g.Key, 1, axis, cfg))
		}
	}
	return rows
}

func buildRow(t *types.Ticket, groupKey string, depth int, axis Axis, cfg ResolverConfig) Row {
	row := Row{
		Ticket:     t,
		GroupKey:   groupKey,
		Depth:      depth,
		ColorClass: StatusColor(t.Status, cfg),
	}

	if t.StartDate != nil {
		row.HasBar = true
		row.LeftPercent = axis.Position(*t.StartDate)
		row.WidthPercent = axis.Width(*t.StartDate, t.DueDate)
	} else if cfg.IsStarted(t.Status) {
		row.HasBar = true
		row.LeftPercent = axis.Position(t.CreatedDate)
		row.WidthPercent = axis.MinBarWidth
	}

	if t.DueDate != nil {
		due := axis.Position(*t.DueDate)
		row.DuePercent = &due
	}
	return row
}
