// Package status derives spec and issue status from checkbox counts and
// picks the next actionable issue. Status is computed, never stored.
package status

import (
	"github.com/goodpm/gpm/internal/graph"
	"github.com/goodpm/gpm/internal/types"
)

// FromCounts applies the status table to a checkbox count.
func FromCounts(c types.CheckboxCount) types.Status {
	switch {
	case c.Total == 0:
		return types.StatusNoTasks
	case c.Checked == 0:
		return types.StatusOpen
	case c.Checked == c.Total:
		return types.StatusComplete
	default:
		return types.StatusInProgress
	}
}

// Issue derives an issue's status from its own Tasks checkboxes only.
func Issue(issue *types.Issue) types.Status {
	return FromCounts(issue.Counts)
}

// SpecLocal derives a spec's status from its own Acceptance Criteria
// checkboxes. Used when a spec has no issues yet.
func SpecLocal(spec *types.Spec) types.Status {
	return FromCounts(spec.Counts)
}

// Rollup derives a spec's status by summing checked and total across its
// linked issues, ignoring the spec's own checkboxes. The sum is
// commutative, so the result is invariant under issue reordering.
func Rollup(linked []*graph.IssueNode) types.Status {
	var sum types.CheckboxCount
	for _, node := range linked {
		sum = sum.Add(node.Counts)
	}
	return FromCounts(sum)
}

// RollupCounts returns the summed counts behind a rollup status.
func RollupCounts(linked []*graph.IssueNode) types.CheckboxCount {
	var sum types.CheckboxCount
	for _, node := range linked {
		sum = sum.Add(node.Counts)
	}
	return sum
}

// Spec picks the authoritative status for a spec: rollup when the spec
// has linked issues, spec-local otherwise.
func Spec(p *graph.Project, spec *types.Spec) types.Status {
	linked := p.LinkedIssues(spec)
	if len(linked) == 0 {
		return SpecLocal(spec)
	}
	return Rollup(linked)
}

// NextActionable returns the lowest-numbered Open issue across the
// project; if none, the lowest-numbered InProgress issue; if none, nil.
// Project issues are already number-sorted.
func NextActionable(p *graph.Project) *graph.IssueNode {
	var inProgress *graph.IssueNode
	for _, node := range p.Issues {
		switch Issue(node.Issue) {
		case types.StatusOpen:
			return node
		case types.StatusInProgress:
			if inProgress == nil {
				inProgress = node
			}
		}
	}
	return inProgress
}
