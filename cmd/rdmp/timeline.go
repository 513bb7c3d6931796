package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roadmapper/rdmp/internal/config"
	"github.com/roadmapper/rdmp/internal/timeline"
	"github.com/roadmapper/rdmp/internal/types"
)

const (
	chartWidth = 60
	labelWidth = 32
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Render the roadmap timeline",
	Long: `Render the filtered snapshot as a month-aligned Gantt timeline.

Hierarchy groups start collapsed to their head ticket; --expand-all opens
every group with children. --epics adds epic swimlanes. With --json the
command emits the axis and computed rows instead of drawing.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		tickets, err := loadFilteredTickets(ctx, cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		expand, _ := cmd.Flags().GetBool("expand-all")
		byEpic, _ := cmd.Flags().GetBool("epics")

		axis := timeline.ComputeAxis(tickets, axisOptions())
		cfg := resolverConfig()

		if byEpic {
			renderEpics(tickets, axis, cfg, expand)
			return
		}

		groups := timeline.Group(tickets)
		state := timeline.NewExpansionState()
		if expand {
			state.ExpandAll(groups)
		}
		rows := timeline.BuildRows(groups, axis, state, cfg)

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"axis": axis,
				"rows": rows,
			})
			return
		}

		if len(rows) == 0 {
			fmt.Println("No tickets match.")
			return
		}
		printMonthHeader(axis)
		for _, row := range rows {
			printRow(row)
		}
	},
}

// axisOptions builds axis settings from config.
func axisOptions() timeline.AxisOptions {
	return timeline.AxisOptions{
		IncludeCreated: config.GetBool("axis.include-created"),
		ForwardMonths:  config.GetInt("axis.forward-months"),
		MinBarWidth:    config.GetFloat64("axis.min-bar-width"),
	}
}

func renderEpics(tickets []*types.Ticket, axis timeline.Axis, cfg timeline.ResolverConfig, expand bool) {
	epics := timeline.GroupByEpic(tickets)

	if jsonOutput {
		type epicRows struct {
			Epic string         `json:"epic"`
			Rows []timeline.Row `json:"rows"`
		}
		out := struct {
			Axis  timeline.Axis `json:"axis"`
			Epics []epicRows    `json:"epics"`
		}{Axis: axis}
		for _, e := range epics {
			state := timeline.NewExpansionState()
			if expand {
				state.ExpandAll(e.Groups)
			}
			out.Epics = append(out.Epics, epicRows{
				Epic: e.Key,
				Rows: timeline.BuildRows(e.Groups, axis, state, cfg),
			})
		}
		outputJSON(out)
		return
	}

	if len(epics) == 0 {
		fmt.Println("No tickets match.")
		return
	}
	printMonthHeader(axis)
	bold := color.New(color.Bold).SprintFunc()
	for _, e := range epics {
		fmt.Printf("\n%s\n", bold(e.Key))
		state := timeline.NewExpansionState()
		if expand {
			state.ExpandAll(e.Groups)
		}
		for _, row := range timeline.BuildRows(e.Groups, axis, state, cfg) {
			printRow(row)
		}
	}
}

// printMonthHeader draws month labels proportionally across the chart.
func printMonthHeader(axis timeline.Axis) {
	header := make([]byte, chartWidth)
	for i := range header {
		header[i] = ' '
	}
	for _, m := range axis.Months {
		col := int(axis.Position(m) / 100 * chartWidth)
		label := m.Format("Jan")
		for i := 0; i < len(label) && col+i < chartWidth; i++ {
			header[col+i] = label[i]
		}
	}
	fmt.Printf("%-*s %s\n", labelWidth, "", string(header))
	fmt.Printf("%-*s %s\n", labelWidth, "", strings.Repeat("-", chartWidth))
}

// printRow draws one ticket line: an indented label and a colored bar.
func printRow(row timeline.Row) {
	label := row.Ticket.Key
	if row.Expandable {
		marker := "+"
		if row.Expanded {
			marker = "-"
		}
		label = marker + " " + label
	}
	label = strings.Repeat("  ", row.Depth) + label
	if len(label) > labelWidth {
		label = label[:labelWidth-1] + "…"
	}

	line := make([]byte, chartWidth)
	for i := range line {
		line[i] = ' '
	}
	if row.HasBar {
		from := int(row.LeftPercent / 100 * chartWidth)
		span := int(row.WidthPercent / 100 * chartWidth)
		if span < 1 {
			span = 1
		}
		for i := from; i < from+span && i < chartWidth; i++ {
			line[i] = '#'
		}
	}
	if row.DuePercent != nil {
		col := int(*row.DuePercent / 100 * chartWidth)
		if col >= chartWidth {
			col = chartWidth - 1
		}
		if col >= 0 {
			line[col] = '|'
		}
	}

	fmt.Printf("%-*s %s\n", labelWidth, label, colorizeBar(string(line), row.ColorClass))
}

func colorizeBar(bar, colorClass string) string {
	switch colorClass {
	case timeline.ColorInProgress:
		return color.BlueString(bar)
	case timeline.ColorInReview:
		return color.YellowString(bar)
	case timeline.ColorDone:
		return color.GreenString(bar)
	case timeline.ColorBlocked:
		return color.RedString(bar)
	default:
		return bar
	}
}

func init() {
	addFilterFlags(timelineCmd)
	timelineCmd.Flags().BoolP("expand-all", "e", false, "Expand every group with children")
	timelineCmd.Flags().Bool("epics", false, "Group the timeline into epic swimlanes")
	rootCmd.AddCommand(timelineCmd)
}
