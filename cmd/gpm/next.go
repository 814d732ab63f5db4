package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goodpm/gpm/internal/formatter"
	"github.com/goodpm/gpm/internal/status"
	"github.com/goodpm/gpm/internal/types"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next actionable issue",
	Long: `Pick the lowest-numbered Open issue in the project; when none is
Open, the lowest-numbered InProgress issue. Prints nothing actionable
when every issue is complete or the project has no issues.`,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

type nextOutput struct {
	Issue  string              `json:"issue,omitempty"`
	Status types.Status        `json:"status,omitempty"`
	Tasks  types.CheckboxCount `json:"tasks,omitempty"`
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	p, err := openProject(cfg)
	if err != nil {
		return err
	}

	node := status.NextActionable(p)
	w := cmd.OutOrStdout()

	if cfg.Output == "json" {
		out := nextOutput{}
		if node != nil {
			out = nextOutput{
				Issue:  node.Filename(),
				Status: status.Issue(node.Issue),
				Tasks:  node.Counts,
			}
		}
		return formatter.WriteJSON(w, out)
	}

	if node == nil {
		if len(p.Issues) == 0 {
			fmt.Fprintln(w, "No issues.")
		} else {
			fmt.Fprintln(w, "All issues complete.")
		}
		return nil
	}

	fmt.Fprintf(w, "%s (%s, %s)\n", node.Filename(), status.Issue(node.Issue), node.Counts)
	return nil
}
