package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roadmapper/rdmp/internal/jira"
	"github.com/roadmapper/rdmp/internal/timeline"
	"github.com/roadmapper/rdmp/internal/types"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tickets from a JSON file instead of Jira",
	Long: `Replace the local snapshot with tickets read from a JSON file.

Two formats are accepted: an array of tickets in rdmp's own JSON shape,
or a raw Jira search export with an "issues" array. Useful for offline
work and for seeding test fixtures.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", args[0], err)
			os.Exit(1)
		}

		tickets, err := decodeTickets(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", args[0], err)
			os.Exit(1)
		}

		resolved := timeline.ApplyStartDates(tickets, resolverConfig())

		ctx := context.Background()
		if err := store.ReplaceTickets(ctx, tickets); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving snapshot: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"tickets":        len(tickets),
				"start_resolved": resolved,
			})
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Imported %d tickets (%d with resolved start dates)\n",
			green("✓"), len(tickets), resolved)
	},
}

// decodeTickets accepts either rdmp's ticket array or a Jira search export.
func decodeTickets(data []byte) ([]*types.Ticket, error) {
	var export struct {
		Issues []jira.Issue `json:"issues"`
	}
	if err := json.Unmarshal(data, &export); err == nil && len(export.Issues) > 0 {
		return jira.MapIssues(export.Issues)
	}

	var tickets []*types.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return tickets, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
