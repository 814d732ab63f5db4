// Command gpm is a project graph validator and status engine for
// filesystem-based issue trackers: specs under specs/, issues under
// issues/, and a README index.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goodpm/gpm/internal/config"
	"github.com/goodpm/gpm/internal/graph"
	"github.com/goodpm/gpm/internal/storage"
)

var (
	// Global flags
	flagProject string
	flagOutput  string
	flagVerbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gpm",
	Short: "Project graph validator and status engine",
	Long: `gpm derives spec and issue status from checkbox counts and validates
the project graph: source links, dependency edges, cycles, and README drift.

A project is a directory with two well-known subdirectories and an index:

  specs/    SPEC_<name>.md planning documents
  issues/   <number>-<description>.md work items
  README.md index with a managed issue table

Core Commands:
  status      Per-issue and per-spec status, plus the next actionable issue
  validate    Structural defect findings (read-only, richer diagnostics)
  fix         Preview and apply corrections (requires --yes to write)
  next        Print the next actionable issue`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "Project root (default: GPM_PROJECT or current directory)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output")
}

// loadConfig resolves configuration with the global flags as overrides.
func loadConfig() *config.Config {
	return config.Load(&config.Config{
		Project: flagProject,
		Output:  flagOutput,
		Verbose: flagVerbose,
	})
}

// openProject validates the project layout and builds the graph.
func openProject(cfg *config.Config) (*graph.Project, error) {
	fs, err := storage.Open(cfg.Project)
	if err != nil {
		return nil, err
	}
	return graph.Build(fs)
}
