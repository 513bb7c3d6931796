package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roadmapper/rdmp/internal/config"
	"github.com/roadmapper/rdmp/internal/jira"
	"github.com/roadmapper/rdmp/internal/timeline"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch tickets from Jira and replace the local snapshot",
	Long: `Fetch every matching ticket from Jira (with changelog) and atomically
replace the local snapshot. Start dates are resolved during sync so later
commands work fully offline.

Connection settings come from config.yaml or RDMP_JIRA_* environment
variables; flags override both.`,
	Run: func(cmd *cobra.Command, _ []string) {
		baseURL, _ := cmd.Flags().GetString("url")
		email, _ := cmd.Flags().GetString("email")
		token, _ := cmd.Flags().GetString("token")
		projectsFlag, _ := cmd.Flags().GetString("projects")

		if baseURL == "" {
			baseURL = config.GetString("jira.url")
		}
		if email == "" {
			email = config.GetString("jira.email")
		}
		if token == "" {
			token = config.GetString("jira.token")
		}
		if projectsFlag == "" {
			projectsFlag = config.GetString("jira.projects")
		}

		if baseURL == "" {
			fmt.Fprintf(os.Stderr, "Error: no Jira URL configured\n")
			fmt.Fprintf(os.Stderr, "Hint: set jira.url in config.yaml or RDMP_JIRA_URL\n")
			os.Exit(1)
		}

		logF, logger := setupSyncLogger(config.GetString("log-file"))
		defer logF.Close()

		client, err := jira.NewClient(jira.Config{
			BaseURL: baseURL,
			Email:   email,
			Token:   token,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var projects []string
		for _, p := range strings.Split(projectsFlag, ",") {
			if p = strings.TrimSpace(p); p != "" {
				projects = append(projects, p)
			}
		}
		jql := jira.BuildJQL(projects)

		ctx := context.Background()
		start := time.Now()
		logger.log("sync started url=%s jql=%q", baseURL, jql)

		issues, err := client.SearchAll(ctx, jql)
		if err != nil {
			logger.log("sync failed: %v", err)
			fmt.Fprintf(os.Stderr, "Error fetching from Jira: %v\n", err)
			os.Exit(1)
		}

		tickets, err := jira.MapIssues(issues)
		if err != nil {
			logger.log("sync failed: %v", err)
			fmt.Fprintf(os.Stderr, "Error mapping tickets: %v\n", err)
			os.Exit(1)
		}

		resolved := timeline.ApplyStartDates(tickets, resolverConfig())

		if err := store.ReplaceTickets(ctx, tickets); err != nil {
			logger.log("sync failed: %v", err)
			fmt.Fprintf(os.Stderr, "Error saving snapshot: %v\n", err)
			os.Exit(1)
		}
		if err := store.SetMetadata(ctx, "last_sync", time.Now().UTC().Format(time.RFC3339)); err != nil {
			logger.log("recording last_sync failed: %v", err)
		}

		logger.log("sync finished tickets=%d resolved=%d elapsed=%s",
			len(tickets), resolved, time.Since(start).Round(time.Millisecond))

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"tickets":        len(tickets),
				"start_resolved": resolved,
			})
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Synced %d tickets (%d with resolved start dates)\n",
			green("✓"), len(tickets), resolved)
	},
}

// resolverConfig builds the start-date resolver settings from config,
// falling back to the stock aliases and candidate fields.
func resolverConfig() timeline.ResolverConfig {
	cfg := timeline.DefaultResolverConfig()
	if statuses := config.GetStringSlice("started-statuses"); len(statuses) > 0 {
		cfg.StartedStatuses = statuses
	}
	if fields := config.GetStringSlice("start-date-fields"); len(fields) > 0 {
		cfg.CandidateFields = fields
	}
	return cfg
}

func init() {
	syncCmd.Flags().String("url", "", "Jira base URL (e.g. https://instance.atlassian.net)")
	syncCmd.Flags().String("email", "", "Jira account email for basic auth")
	syncCmd.Flags().String("token", "", "Jira API token (or PAT for bearer auth)")
	syncCmd.Flags().String("projects", "", "Comma-separated project keys to sync")
	rootCmd.AddCommand(syncCmd)
}
