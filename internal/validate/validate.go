// Package validate walks the project graph and produces typed findings
// for structural defects. It never mutates anything.
package validate

import (
	"fmt"

	"github.com/goodpm/gpm/internal/graph"
	"github.com/goodpm/gpm/internal/parser"
	"github.com/goodpm/gpm/internal/readme"
	"github.com/goodpm/gpm/internal/types"
)

// Project runs every check against a built graph and returns the
// findings in a stable order: file-level first, then reference-level,
// then cycles, then README drift.
func Project(p *graph.Project) []types.Finding {
	var findings []types.Finding

	for _, m := range p.Malformed {
		findings = append(findings, types.NewFinding(types.FindingMalformedFilename, m.Path, m.Reason))
	}
	for _, u := range p.Unreadable {
		findings = append(findings, types.NewFinding(types.FindingUnreadableFile, u.Path, u.Err.Error()))
	}

	for _, node := range p.Issues {
		findings = append(findings, checkSource(node)...)
		findings = append(findings, checkDependencies(node)...)
	}

	findings = append(findings, detectCycles(p)...)
	findings = append(findings, checkReadmeDrift(p)...)

	return findings
}

// checkSource distinguishes an absent Source section (unlinked) from a
// present but broken one (orphaned).
func checkSource(node *graph.IssueNode) []types.Finding {
	switch node.Source.State {
	case parser.RefAbsent:
		return []types.Finding{types.NewFinding(types.FindingUnlinkedIssue, node.FilePath, "no Source section")}
	case parser.RefMalformed:
		return []types.Finding{types.NewFinding(types.FindingOrphanedSource, node.FilePath, node.Source.Reason)}
	}

	if node.SourceBroken == nil {
		return nil
	}
	if node.SourceBroken.Reason == graph.ReasonCrossProject {
		return []types.Finding{types.NewFinding(types.FindingCrossProjectReference, node.FilePath,
			fmt.Sprintf("Source %s", node.SourceBroken))}
	}
	return []types.Finding{types.NewFinding(types.FindingOrphanedSource, node.FilePath,
		fmt.Sprintf("Source %s", node.SourceBroken))}
}

func checkDependencies(node *graph.IssueNode) []types.Finding {
	var findings []types.Finding
	for _, broken := range node.DepBroken {
		t := types.FindingBrokenDependency
		if broken.Reason == graph.ReasonCrossProject {
			t = types.FindingCrossProjectReference
		}
		findings = append(findings, types.NewFinding(t, node.FilePath,
			fmt.Sprintf("dependency %s", broken)))
	}
	return findings
}

// DFS colors.
const (
	white = iota
	gray
	black
)

// detectCycles runs a three-color DFS over the issue dependency graph
// and reports each cycle found as an ordered list of issue numbers
// starting and ending at the same node.
func detectCycles(p *graph.Project) []types.Finding {
	color := make(map[*graph.IssueNode]int, len(p.Issues))
	parent := make(map[*graph.IssueNode]*graph.IssueNode)
	var findings []types.Finding

	var dfs func(u *graph.IssueNode)
	dfs = func(u *graph.IssueNode) {
		color[u] = gray
		for _, v := range u.DepIssues {
			switch color[v] {
			case white:
				parent[v] = u
				dfs(v)
			case gray:
				findings = append(findings, cycleFinding(extractCycle(parent, u, v)))
			}
		}
		color[u] = black
	}

	for _, node := range p.Issues {
		if color[node] == white {
			dfs(node)
		}
	}
	return findings
}

// extractCycle reconstructs the cycle closed by the back edge u -> v,
// walking parent links from u back to v. The result runs v ... u v.
func extractCycle(parent map[*graph.IssueNode]*graph.IssueNode, u, v *graph.IssueNode) []int {
	var back []int
	for cur := u; cur != nil && cur != v; cur = parent[cur] {
		back = append(back, cur.Number)
	}

	cycle := []int{v.Number}
	for i := len(back) - 1; i >= 0; i-- {
		cycle = append(cycle, back[i])
	}
	cycle = append(cycle, v.Number)
	return cycle
}

func cycleFinding(cycle []int) types.Finding {
	f := types.NewFinding(types.FindingCircularDependency, "", fmt.Sprintf("cycle %v", cycle))
	f.Cycle = cycle
	return f
}

// checkReadmeDrift compares the issues on disk with the issues the
// README claims, in both directions. A project without a README is
// skipped; sync can create the managed region later.
func checkReadmeDrift(p *graph.Project) []types.Finding {
	if !p.HasReadme {
		return nil
	}

	listed := readme.ListedIssues(p.Readme)
	listedSet := make(map[string]bool, len(listed))
	for _, name := range listed {
		listedSet[name] = true
	}

	onDisk := make(map[string]bool, len(p.Issues))
	var findings []types.Finding
	for _, node := range p.Issues {
		name := node.Filename()
		onDisk[name] = true
		if !listedSet[name] {
			findings = append(findings, types.NewFinding(types.FindingMissingFromReadme, name,
				"issue exists on disk but is not listed in README"))
		}
	}
	for _, name := range listed {
		if !onDisk[name] {
			findings = append(findings, types.NewFinding(types.FindingStaleReadmeEntry, name,
				"README lists an issue that does not exist on disk"))
		}
	}
	return findings
}
