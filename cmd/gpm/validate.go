package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goodpm/gpm/internal/formatter"
	"github.com/goodpm/gpm/internal/types"
	"github.com/goodpm/gpm/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Detect structural defects in the project graph",
	Long: `Check the project for structural defects without mutating anything:
orphaned or absent source links, malformed filenames, broken or circular
dependencies, cross-project references, and README drift.

The full report is always produced, even in the presence of per-file
errors. The exit status is non-zero when any high-severity finding
exists.

Examples:
  gpm validate
  gpm validate -o json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

type validateOutput struct {
	Project  string          `json:"project"`
	Findings []types.Finding `json:"findings"`
	Counts   map[string]int  `json:"counts"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	p, err := openProject(cfg)
	if err != nil {
		return err
	}

	findings := validate.Project(p)
	out := validateOutput{
		Project:  p.FS.Root,
		Findings: findings,
		Counts:   make(map[string]int),
	}
	for _, f := range findings {
		out.Counts[string(f.Severity)]++
	}

	w := cmd.OutOrStdout()
	if cfg.Output == "json" {
		if err := formatter.WriteJSON(w, out); err != nil {
			return err
		}
	} else {
		if len(findings) == 0 {
			fmt.Fprintln(w, "No findings.")
			return nil
		}

		table := formatter.NewTable(w, "SEVERITY", "TYPE", "PATH", "DETAIL")
		table.SetMaxWidth(3, 80)
		for _, f := range findings {
			table.AddRow(string(f.Severity), string(f.Type), f.Path, f.Detail)
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n", summarizeFindings(out.Counts))
	}

	if out.Counts[string(types.SeverityHigh)] > 0 {
		return fmt.Errorf("validation failed: %d high-severity finding(s)", out.Counts[string(types.SeverityHigh)])
	}
	return nil
}

func summarizeFindings(counts map[string]int) string {
	var parts []string
	for _, sev := range []types.Severity{types.SeverityHigh, types.SeverityMedium, types.SeverityLow} {
		if n := counts[string(sev)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	if len(parts) == 0 {
		return "No findings."
	}
	return "Findings: " + strings.Join(parts, ", ")
}
