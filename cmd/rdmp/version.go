package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/roadmapper/rdmp/internal/storage/sqlite"
)

const (
	// Version is the current version of rdmp
	Version = "0.3.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			outputJSON(map[string]string{
				"version": Version,
				"build":   Build,
				"schema":  sqlite.SchemaVersion,
			})
		} else {
			fmt.Printf("rdmp version %s (%s)\n", Version, Build)
		}
	},
}

// checkSchemaCompatibility warns when the database was written by a
// binary with a newer schema major version than this one understands.
func checkSchemaCompatibility() {
	dbVersion, err := store.GetMetadata(context.Background(), "schema_version")
	if err != nil || dbVersion == "" {
		return
	}
	if !semver.IsValid(dbVersion) {
		return
	}
	if semver.Compare(semver.Major(dbVersion), semver.Major(sqlite.SchemaVersion)) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: database schema %s is newer than this binary supports (%s)\n",
			dbVersion, sqlite.SchemaVersion)
		fmt.Fprintf(os.Stderr, "Hint: upgrade rdmp to read this database safely\n")
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
