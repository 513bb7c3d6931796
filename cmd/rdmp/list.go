package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roadmapper/rdmp/internal/timeline"
	"github.com/roadmapper/rdmp/internal/types"
)

// normalizeTerms trims whitespace, removes empty strings, and deduplicates
func normalizeTerms(ss []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// filtersFromFlags assembles the filter set shared by list and timeline.
func filtersFromFlags(cmd *cobra.Command) types.Filters {
	projects, _ := cmd.Flags().GetStringSlice("project")
	labels, _ := cmd.Flags().GetStringSlice("label")
	assignees, _ := cmd.Flags().GetStringSlice("assignee")
	statuses, _ := cmd.Flags().GetStringSlice("status")
	since, _ := cmd.Flags().GetString("created-since")
	until, _ := cmd.Flags().GetString("created-until")

	f := types.Filters{
		Projects:  normalizeTerms(projects),
		Labels:    normalizeTerms(labels),
		Assignees: normalizeTerms(assignees),
		Statuses:  normalizeTerms(statuses),
	}
	if since != "" || until != "" {
		f.DateRange = &types.DateRange{Start: since, End: until}
	}
	return f
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("project", "p", nil, "Filter by project key (repeatable)")
	cmd.Flags().StringSliceP("label", "l", nil, "Filter by label substring (repeatable, any match)")
	cmd.Flags().StringSliceP("assignee", "a", nil, "Filter by assignee display name (repeatable)")
	cmd.Flags().StringSliceP("status", "s", nil, "Filter by status (repeatable)")
	cmd.Flags().String("created-since", "", "Only tickets created on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("created-until", "", "Only tickets created on or before this date (YYYY-MM-DD)")
	cmd.Flags().String("preset", "", "Apply a saved filter preset by name or ID")
}

// loadFilteredTickets reads the snapshot and applies preset and flag
// filters. Flag filters stack on top of a preset, both conjunctive.
func loadFilteredTickets(ctx context.Context, cmd *cobra.Command) ([]*types.Ticket, error) {
	tickets, err := store.ListTickets(ctx)
	if err != nil {
		return nil, err
	}

	if presetRef, _ := cmd.Flags().GetString("preset"); presetRef != "" {
		preset, err := findPreset(ctx, presetRef)
		if err != nil {
			return nil, err
		}
		tickets = timeline.Apply(tickets, preset.Filters)
	}

	return timeline.Apply(tickets, filtersFromFlags(cmd)), nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets from the local snapshot",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		tickets, err := loadFilteredTickets(ctx, cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(tickets)
			return
		}

		if len(tickets) == 0 {
			fmt.Println("No tickets match.")
			return
		}

		cfg := resolverConfig()
		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%-12s %-14s %-12s %-20s %s\n",
			bold("KEY"), bold("STATUS"), bold("START"), bold("ASSIGNEE"), bold("SUMMARY"))
		for _, t := range tickets {
			start := "-"
			if t.StartDate != nil {
				start = t.StartDate.Format("2006-01-02")
			}
			assignee := t.Assignee
			if assignee == "" {
				assignee = "-"
			}
			fmt.Printf("%-12s %-14s %-12s %-20s %s\n",
				t.Key, colorizeStatus(t.Status, cfg), start, assignee, t.Summary)
		}
		fmt.Printf("\n%d tickets\n", len(tickets))
	},
}

// colorizeStatus renders a status name in its roadmap color.
func colorizeStatus(status string, cfg timeline.ResolverConfig) string {
	switch timeline.StatusColor(status, cfg) {
	case timeline.ColorInProgress:
		return color.BlueString(status)
	case timeline.ColorInReview:
		return color.YellowString(status)
	case timeline.ColorDone:
		return color.GreenString(status)
	case timeline.ColorBlocked:
		return color.RedString(status)
	default:
		return status
	}
}

func init() {
	addFilterFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}
