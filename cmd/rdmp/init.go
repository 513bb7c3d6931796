package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roadmapper/rdmp"
	"github.com/roadmapper/rdmp/internal/storage/sqlite"
)

const configTemplate = `# rdmp configuration
# Settings may also be supplied as RDMP_* environment variables.

# jira:
#   url: https://your-instance.atlassian.net
#   email: you@example.com
#   token: your-api-token
#   projects: PROJ,OPS

# axis:
#   forward-months: 6
#   min-bar-width: 2.0
#   include-created: true
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize rdmp in the current directory",
	Long: `Initialize rdmp in the current directory by creating a .rdmp/ directory,
a SQLite database, and a commented config.yaml skeleton.`,
	Run: func(cmd *cobra.Command, _ []string) {
		quiet, _ := cmd.Flags().GetBool("quiet")

		initDBPath := dbPath
		if initDBPath == "" {
			if envDB := os.Getenv("RDMP_DB"); envDB != "" {
				initDBPath = envDB
			} else {
				initDBPath = filepath.Join(".rdmp", rdmp.CanonicalDatabaseName)
			}
		}

		dir := filepath.Dir(initDBPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
			os.Exit(1)
		}

		configPath := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			if err := os.WriteFile(configPath, []byte(configTemplate), 0600); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", configPath, err)
				os.Exit(1)
			}
		}

		s, err := sqlite.New(initDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		if jsonOutput {
			outputJSON(map[string]string{
				"db":     s.Path(),
				"config": configPath,
			})
			return
		}
		if !quiet {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Initialized roadmap database at %s\n", green("✓"), s.Path())
			fmt.Printf("  Edit %s with your Jira credentials, then run 'rdmp sync'\n", configPath)
		}
	},
}

func init() {
	initCmd.Flags().BoolP("quiet", "q", false, "Suppress output")
	rootCmd.AddCommand(initCmd)
}
