package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goodpm/gpm/internal/formatter"
	"github.com/goodpm/gpm/internal/graph"
	"github.com/goodpm/gpm/internal/status"
	"github.com/goodpm/gpm/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-issue and per-spec status",
	Long: `Derive status for every issue and spec from checkbox counts.

Issue status comes from the issue's own Tasks section. Spec status uses
rollup aggregation over linked issues when any exist, and the spec's own
Acceptance Criteria otherwise.

Examples:
  gpm status
  gpm status -p path/to/project -o json`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// issueStatus is one row of the issue portion of the status report.
type issueStatus struct {
	Issue  string              `json:"issue"`
	Status types.Status        `json:"status"`
	Tasks  types.CheckboxCount `json:"tasks"`
	Spec   string              `json:"spec,omitempty"`
}

// specStatus is one row of the spec portion of the status report.
type specStatus struct {
	Spec   string              `json:"spec"`
	Status types.Status        `json:"status"`
	Mode   string              `json:"mode"` // "rollup" or "spec-local"
	Counts types.CheckboxCount `json:"counts"`
	Issues int                 `json:"issues"`
}

type statusOutput struct {
	Project        string        `json:"project"`
	Issues         []issueStatus `json:"issues"`
	Specs          []specStatus  `json:"specs"`
	Unlinked       []string      `json:"unlinked,omitempty"`
	NextActionable string        `json:"next_actionable,omitempty"`
}

func buildStatusOutput(p *graph.Project) statusOutput {
	out := statusOutput{Project: p.FS.Root}

	for _, node := range p.Issues {
		row := issueStatus{
			Issue:  node.Filename(),
			Status: status.Issue(node.Issue),
			Tasks:  node.Counts,
		}
		if node.Spec != nil {
			row.Spec = node.Spec.Name
		}
		out.Issues = append(out.Issues, row)
	}

	for _, spec := range p.Specs {
		linked := p.LinkedIssues(spec)
		row := specStatus{Spec: spec.Name, Issues: len(linked)}
		if len(linked) > 0 {
			row.Mode = "rollup"
			row.Status = status.Rollup(linked)
			row.Counts = status.RollupCounts(linked)
		} else {
			row.Mode = "spec-local"
			row.Status = status.SpecLocal(spec)
			row.Counts = spec.Counts
		}
		out.Specs = append(out.Specs, row)
	}

	for _, node := range p.Unlinked {
		out.Unlinked = append(out.Unlinked, node.Filename())
	}

	if next := status.NextActionable(p); next != nil {
		out.NextActionable = next.Filename()
	}
	return out
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	p, err := openProject(cfg)
	if err != nil {
		return err
	}

	out := buildStatusOutput(p)
	w := cmd.OutOrStdout()

	if cfg.Output == "json" {
		return formatter.WriteJSON(w, out)
	}

	issueTable := formatter.NewTable(w, "ISSUE", "STATUS", "TASKS", "SPEC")
	for _, row := range out.Issues {
		issueTable.AddRow(row.Issue, string(row.Status), row.Tasks.String(), row.Spec)
	}
	if err := issueTable.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	specTable := formatter.NewTable(w, "SPEC", "STATUS", "MODE", "COUNTS", "ISSUES")
	for _, row := range out.Specs {
		specTable.AddRow(row.Spec, string(row.Status), row.Mode, row.Counts.String(), fmt.Sprint(row.Issues))
	}
	if err := specTable.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if out.NextActionable != "" {
		fmt.Fprintf(w, "Next actionable: %s\n", out.NextActionable)
	} else if len(out.Issues) == 0 {
		fmt.Fprintln(w, "No issues.")
	} else {
		fmt.Fprintln(w, "All issues complete.")
	}
	return nil
}
