// Package fixer plans and applies corrections to a project. Planning is
// pure computation over the built graph; applying mutates files one at a
// time with atomic writes and partial-failure batch semantics. Each fix
// touches exactly one of: an issue's Source line, an issue's
// Dependencies list, or the README's managed issue table.
package fixer

import (
	"fmt"
	"strings"

	"github.com/goodpm/gpm/internal/graph"
	"github.com/goodpm/gpm/internal/parser"
	"github.com/goodpm/gpm/internal/readme"
	"github.com/goodpm/gpm/internal/status"
	"github.com/goodpm/gpm/internal/storage"
	"github.com/goodpm/gpm/internal/types"
)

// ChangeKind identifies what a change rewrites.
type ChangeKind string

const (
	// KindSourceFix rewrites the Source section's path.
	KindSourceFix ChangeKind = "source-fix"

	// KindDependencyFix rewrites the Dependencies list to canonical form.
	KindDependencyFix ChangeKind = "dependency-fix"

	// KindReadmeSync rewrites the README's managed issue-table region.
	KindReadmeSync ChangeKind = "readme-sync"
)

// Change is one planned file mutation. It carries only data; no I/O
// happens until Apply.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Path   string     `json:"path"`
	Detail string     `json:"detail"`

	// NewSource is the replacement Source path for KindSourceFix.
	NewSource string `json:"new_source,omitempty"`

	// NewDeps are the full dependency filenames for KindDependencyFix,
	// in original declaration order.
	NewDeps []string `json:"new_deps,omitempty"`

	// NewTable is the rendered issue table for KindReadmeSync.
	NewTable string `json:"new_table,omitempty"`
}

// Skip records a fix that was deliberately not planned. Ambiguous
// suggestions and cross-project references are always surfaced for
// manual review, never auto-applied.
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ChangeSet is the output of planning: what would be written, and what
// needs a human.
type ChangeSet struct {
	Changes []Change `json:"changes"`
	Skipped []Skip   `json:"skipped"`
}

// Empty reports whether the plan contains no writable changes.
func (cs *ChangeSet) Empty() bool {
	return len(cs.Changes) == 0
}

// Plan computes the full change set for a project. When target is
// non-empty, planning is restricted to that single issue file (README
// sync is excluded in that case). Plan performs reads only.
func Plan(p *graph.Project, target string) *ChangeSet {
	cs := &ChangeSet{}

	for _, node := range p.Issues {
		if target != "" && !matchesTarget(node, target) {
			continue
		}
		planSourceFix(p, node, cs)
		planDependencyFix(p, node, cs)
	}

	if target == "" {
		planReadmeSync(p, cs)
	}
	return cs
}

func matchesTarget(node *graph.IssueNode, target string) bool {
	return node.FilePath == target || node.Filename() == target
}

// planSourceFix suggests a spec for issues whose Source is broken.
// Issues with no Source section cannot be fixed by a path rewrite and
// are skipped for manual review.
func planSourceFix(p *graph.Project, node *graph.IssueNode, cs *ChangeSet) {
	switch node.Source.State {
	case parser.RefAbsent:
		return
	case parser.RefMalformed:
		cs.Skipped = append(cs.Skipped, Skip{Path: node.FilePath, Reason: "Source section has no path to rewrite"})
		return
	}

	if node.SourceBroken == nil {
		return
	}
	if node.SourceBroken.Reason == graph.ReasonCrossProject {
		cs.Skipped = append(cs.Skipped, Skip{Path: node.FilePath,
			Reason: fmt.Sprintf("cross-project Source %s; never auto-fixed", node.SourceBroken)})
		return
	}

	sug := SuggestSpecForOrphan(node.Issue, p.Specs)
	if sug.Ambiguous {
		cs.Skipped = append(cs.Skipped, Skip{Path: node.FilePath, Reason: sug.Reason})
		return
	}

	newPath := graph.SourcePrefix + "SPEC_" + sug.Spec.Name + ".md"
	cs.Changes = append(cs.Changes, Change{
		Kind:      KindSourceFix,
		Path:      node.FilePath,
		Detail:    fmt.Sprintf("Source %s -> %s", node.SourceBroken, newPath),
		NewSource: newPath,
	})
}

// planDependencyFix canonicalizes fully-resolvable dependency lists:
// numeric shorthand expanded to filenames, duplicates removed, markdown
// list form. Lists with unresolvable tokens are left alone.
func planDependencyFix(p *graph.Project, node *graph.IssueNode, cs *ChangeSet) {
	if node.Deps.State != parser.RefFound || len(node.Deps.Tokens) == 0 {
		return
	}
	if len(node.DepBroken) > 0 {
		for _, broken := range node.DepBroken {
			reason := fmt.Sprintf("unresolvable dependency %s", broken)
			if broken.Reason == graph.ReasonCrossProject {
				reason = fmt.Sprintf("cross-project dependency %s; never auto-fixed", broken)
			}
			cs.Skipped = append(cs.Skipped, Skip{Path: node.FilePath, Reason: reason})
		}
		return
	}

	canonical := make([]string, len(node.DepIssues))
	for i, dep := range node.DepIssues {
		canonical[i] = dep.Filename()
	}

	text, err := p.FS.ReadFile(node.FilePath)
	if err != nil {
		cs.Skipped = append(cs.Skipped, Skip{Path: node.FilePath, Reason: fmt.Sprintf("unreadable: %v", err)})
		return
	}
	rewritten, err := rewriteDependencies(text, canonical)
	if err != nil || rewritten == text {
		return
	}

	cs.Changes = append(cs.Changes, Change{
		Kind:    KindDependencyFix,
		Path:    node.FilePath,
		Detail:  fmt.Sprintf("canonicalize Dependencies to [%s]", strings.Join(canonical, ", ")),
		NewDeps: canonical,
	})
}

// planReadmeSync recomputes the managed issue table from filesystem
// truth and plans a rewrite when it differs from the current README.
func planReadmeSync(p *graph.Project, cs *ChangeSet) {
	rows := make([]readme.Row, 0, len(p.Issues))
	for _, node := range p.Issues {
		rows = append(rows, readme.Row{
			Filename: node.Filename(),
			Status:   status.Issue(node.Issue),
			Counts:   node.Counts,
		})
	}
	table := readme.RenderTable(rows)

	current := p.Readme
	if readme.Sync(current, table) == current {
		return
	}

	cs.Changes = append(cs.Changes, Change{
		Kind:     KindReadmeSync,
		Path:     storage.ReadmeFile,
		Detail:   fmt.Sprintf("sync managed issue table (%d issues)", len(rows)),
		NewTable: table,
	})
}

// Suggestion is the outcome of matching an orphaned issue to a spec.
type Suggestion struct {
	// Spec is the suggested parent; nil when Ambiguous.
	Spec *types.Spec

	// Ambiguous means no single spec could be chosen without guessing.
	Ambiguous bool

	// Reason explains an ambiguous outcome.
	Reason string
}

// SuggestSpecForOrphan picks a parent spec for an orphaned issue. A
// project with exactly one spec suggests it unconditionally; otherwise
// the spec with the highest token overlap against the issue description
// wins. Ties or zero overlap are Ambiguous and require manual
// resolution.
func SuggestSpecForOrphan(issue *types.Issue, specs []*types.Spec) Suggestion {
	if len(specs) == 0 {
		return Suggestion{Ambiguous: true, Reason: "project has no specs"}
	}
	if len(specs) == 1 {
		return Suggestion{Spec: specs[0]}
	}

	issueTokens := strings.Split(issue.Description, "-")
	var best *types.Spec
	bestScore := 0
	tied := false

	for _, spec := range specs {
		score := tokenOverlap(issueTokens, strings.Split(spec.Name, "-"))
		switch {
		case score > bestScore:
			best, bestScore, tied = spec, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}

	if bestScore == 0 {
		return Suggestion{Ambiguous: true, Reason: "no spec name shares tokens with the issue description"}
	}
	if tied {
		return Suggestion{Ambiguous: true, Reason: "multiple specs match the issue description equally"}
	}
	return Suggestion{Spec: best}
}

// tokenOverlap counts distinct tokens present in both lists.
func tokenOverlap(a, b []string) int {
	inB := make(map[string]bool, len(b))
	for _, t := range b {
		if t != "" {
			inB[t] = true
		}
	}
	counted := make(map[string]bool, len(a))
	n := 0
	for _, t := range a {
		if inB[t] && !counted[t] {
			counted[t] = true
			n++
		}
	}
	return n
}
