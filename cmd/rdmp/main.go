package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roadmapper/rdmp"
	"github.com/roadmapper/rdmp/internal/config"
	"github.com/roadmapper/rdmp/internal/storage"
	"github.com/roadmapper/rdmp/internal/storage/memory"
	"github.com/roadmapper/rdmp/internal/storage/sqlite"
)

var (
	dbPath     string
	store      storage.Storage
	jsonOutput bool
	noDB       bool // in-memory store, nothing touches disk
)

var rootCmd = &cobra.Command{
	Use:   "rdmp",
	Short: "rdmp - Roadmap timeline for Jira tickets",
	Long: `Turns a synced snapshot of Jira tickets into a grouped, month-aligned
roadmap timeline. Sync once, then slice the roadmap offline with filters,
epic swimlanes, and saved presets.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Priority: flags > viper (config file + env vars) > defaults
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if !cmd.Flags().Changed("no-db") {
			noDB = config.GetBool("no-db")
		}
		if !cmd.Flags().Changed("db") && dbPath == "" {
			dbPath = config.GetString("db")
		}

		// Commands that never open a store
		switch cmd.Name() {
		case "init", "version", "help", "completion":
			return
		}

		if noDB {
			store = memory.New()
			return
		}

		if dbPath == "" {
			if found := rdmp.FindDatabasePath(); found != "" {
				dbPath = found
			}
		}
		if dbPath == "" {
			fmt.Fprintf(os.Stderr, "Error: no roadmap database found\n")
			fmt.Fprintf(os.Stderr, "Hint: run 'rdmp init' to create one in the current directory\n")
			fmt.Fprintf(os.Stderr, "      or set RDMP_DB to point at an existing database\n")
			os.Exit(1)
		}

		var err error
		store, err = sqlite.New(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}

		checkSchemaCompatibility()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
			store = nil
		}
	},
}

// outputJSON outputs data as pretty-printed JSON
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// localConfigDir returns the .rdmp directory next to the active database,
// falling back to ./.rdmp when no database is resolved yet.
func localConfigDir() string {
	if dbPath != "" {
		return filepath.Dir(dbPath)
	}
	return ".rdmp"
}

func init() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: auto-discover .rdmp/*.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noDB, "no-db", false, "Use an in-memory store instead of SQLite")
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Printf("rdmp version %s (%s)\n", Version, Build)
			return
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
