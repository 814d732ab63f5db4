package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goodpm/gpm/internal/fixer"
	"github.com/goodpm/gpm/internal/formatter"
)

var fixYes bool

var fixCmd = &cobra.Command{
	Use:   "fix [issue-file]",
	Short: "Preview and apply corrections",
	Long: `Plan corrections for the project and show them as a dry-run preview.
Nothing is written unless --yes is passed.

Fixes are limited to three mutations: the Source line of an issue, the
Dependencies list of an issue, and the managed issue table of the
README. Ambiguous suggestions and cross-project references are never
applied; they are listed for manual review.

With an issue-file argument, only that issue is planned.

Examples:
  gpm fix
  gpm fix --yes
  gpm fix issues/004-caching.md --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().BoolVar(&fixYes, "yes", false, "Apply the planned changes (default is preview only)")
	rootCmd.AddCommand(fixCmd)
}

type fixOutput struct {
	Project string             `json:"project"`
	Plan    *fixer.ChangeSet   `json:"plan"`
	Report  *fixer.ApplyReport `json:"report,omitempty"`
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	p, err := openProject(cfg)
	if err != nil {
		return err
	}

	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	plan := fixer.Plan(p, target)
	out := fixOutput{Project: p.FS.Root, Plan: plan}
	w := cmd.OutOrStdout()

	if fixYes && !plan.Empty() {
		report, err := fixer.Apply(p.FS, plan, true)
		if err != nil {
			return err
		}
		out.Report = report
	}

	if cfg.Output == "json" {
		if err := formatter.WriteJSON(w, out); err != nil {
			return err
		}
		return fixExitError(out.Report)
	}

	printPlan(cmd, plan)
	if out.Report != nil {
		printReport(cmd, out.Report)
	} else if !plan.Empty() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Preview only. Re-run with --yes to apply.")
	}
	return fixExitError(out.Report)
}

func printPlan(cmd *cobra.Command, plan *fixer.ChangeSet) {
	w := cmd.OutOrStdout()

	if plan.Empty() && len(plan.Skipped) == 0 {
		fmt.Fprintln(w, "Nothing to fix.")
		return
	}

	if !plan.Empty() {
		table := formatter.NewTable(w, "KIND", "FILE", "CHANGE")
		table.SetMaxWidth(2, 80)
		for _, c := range plan.Changes {
			table.AddRow(string(c.Kind), c.Path, c.Detail)
		}
		//nolint:errcheck // preview output
		table.Render()
	}

	if len(plan.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Needs manual review:")
		for _, s := range plan.Skipped {
			fmt.Fprintf(w, "  %s: %s\n", s.Path, s.Reason)
		}
	}
}

func printReport(cmd *cobra.Command, report *fixer.ApplyReport) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Applied %d change(s).\n", len(report.Applied))
	for _, f := range report.Failed {
		fmt.Fprintf(w, "FAILED %s (%s): %s\n", f.Change.Path, f.Change.Kind, f.Err)
	}
}

// fixExitError turns partial batch failure into a non-zero exit without
// hiding the successes already reported.
func fixExitError(report *fixer.ApplyReport) error {
	if report == nil || len(report.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d fix(es) failed to apply", len(report.Failed))
}
