package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roadmapper/rdmp/internal/types"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage saved filter presets",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the given filter flags as a named preset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		filters := filtersFromFlags(cmd)

		preset, err := store.SavePreset(context.Background(), name, filters)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving preset: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(preset)
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Saved preset %q (%s)\n", green("✓"), preset.Name, preset.ID)
	},
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Run: func(cmd *cobra.Command, _ []string) {
		presets, err := store.ListPresets(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(presets)
			return
		}
		if len(presets) == 0 {
			fmt.Println("No presets saved.")
			return
		}
		for _, p := range presets {
			fmt.Printf("%-24s %s  %s\n", p.Name, p.ID, describeFilters(p.Filters))
		}
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		preset, err := findPreset(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.DeletePreset(ctx, preset.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting preset: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]string{"deleted": preset.ID})
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted preset %q\n", green("✓"), preset.Name)
	},
}

// findPreset resolves a preset by exact ID or exact name, in that order.
func findPreset(ctx context.Context, ref string) (*types.RoadmapPreset, error) {
	presets, err := store.ListPresets(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range presets {
		if p.ID == ref {
			return p, nil
		}
	}
	for _, p := range presets {
		if p.Name == ref {
			return p, nil
		}
	}
	return nil, fmt.Errorf("preset %s not found", ref)
}

// describeFilters renders a short human summary of a filter set.
func describeFilters(f types.Filters) string {
	var parts []string
	if len(f.Projects) > 0 {
		parts = append(parts, "projects="+strings.Join(f.Projects, ","))
	}
	if len(f.Labels) > 0 {
		parts = append(parts, "labels="+strings.Join(f.Labels, ","))
	}
	if len(f.Assignees) > 0 {
		parts = append(parts, "assignees="+strings.Join(f.Assignees, ","))
	}
	if len(f.Statuses) > 0 {
		parts = append(parts, "statuses="+strings.Join(f.Statuses, ","))
	}
	if f.DateRange != nil {
		parts = append(parts, fmt.Sprintf("created=%s..%s", f.DateRange.Start, f.DateRange.End))
	}
	if len(parts) == 0 {
		return "(no filters)"
	}
	return strings.Join(parts, " ")
}

func init() {
	addFilterFlags(presetSaveCmd)
	_ = presetSaveCmd.Flags().MarkHidden("preset")
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetDeleteCmd)
	rootCmd.AddCommand(presetCmd)
}
