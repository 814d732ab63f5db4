package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goodpm/gpm/internal/parser"
	"github.com/goodpm/gpm/internal/storage"
	"github.com/goodpm/gpm/internal/types"
)

// BreakReason classifies why a reference failed to resolve.
type BreakReason string

const (
	// ReasonMissingFile: the resolved path does not exist.
	ReasonMissingFile BreakReason = "missing_file"

	// ReasonWrongPattern: the target exists but is not a valid spec file.
	ReasonWrongPattern BreakReason = "wrong_pattern"

	// ReasonCrossProject: the path resolves outside the project root.
	ReasonCrossProject BreakReason = "cross_project"

	// ReasonWrongPrefix: the relative path does not climb out of issues/
	// toward specs/, so it cannot reach a spec.
	ReasonWrongPrefix BreakReason = "wrong_relative_prefix"

	// ReasonMissing: no issue matches the dependency token.
	ReasonMissing BreakReason = "missing"

	// ReasonAmbiguous: more than one issue matches a numeric token.
	ReasonAmbiguous BreakReason = "ambiguous"
)

// BrokenRef is a reference that failed to resolve, tagged with the raw
// token and a specific reason.
type BrokenRef struct {
	Raw    string
	Reason BreakReason
}

func (b BrokenRef) String() string {
	return fmt.Sprintf("%q (%s)", b.Raw, b.Reason)
}

// SourcePrefix is the designated relative prefix for spec references
// written from an issue file.
const SourcePrefix = "../specs/"

// resolveSource resolves a raw Source path relative to the issue
// directory. Resolution succeeds only when the target exists, matches
// the spec filename pattern, and lies within the project.
func (p *Project) resolveSource(raw string) (*types.Spec, *BrokenRef) {
	issueDir := p.FS.Abs(storage.IssuesDir)
	target := filepath.Clean(filepath.Join(issueDir, raw))

	rel, inside := p.FS.Rel(target)
	if !inside {
		return nil, &BrokenRef{Raw: raw, Reason: ReasonCrossProject}
	}

	if spec, ok := p.SpecByPath[rel]; ok {
		return spec, nil
	}

	// Not a known spec: pick the most specific reason.
	if !strings.HasPrefix(raw, "../") {
		return nil, &BrokenRef{Raw: raw, Reason: ReasonWrongPrefix}
	}
	id := parser.ParseIdentity(rel)
	if id.Kind != types.KindSpec {
		if fileExists(target) {
			return nil, &BrokenRef{Raw: raw, Reason: ReasonWrongPattern}
		}
	}
	return nil, &BrokenRef{Raw: raw, Reason: ReasonMissingFile}
}

// resolveDependency resolves one raw dependency token. Purely numeric
// tokens match the unique issue with that numeric prefix; filename-like
// tokens require exact existence. Tokens with path separators are
// checked against the project boundary.
func (p *Project) resolveDependency(raw string) (*IssueNode, *BrokenRef) {
	if num, err := strconv.Atoi(raw); err == nil {
		matches := p.issuesByNumber[num]
		switch len(matches) {
		case 0:
			return nil, &BrokenRef{Raw: raw, Reason: ReasonMissing}
		case 1:
			return matches[0], nil
		default:
			return nil, &BrokenRef{Raw: raw, Reason: ReasonAmbiguous}
		}
	}

	if strings.ContainsRune(raw, '/') {
		issueDir := p.FS.Abs(storage.IssuesDir)
		target := filepath.Clean(filepath.Join(issueDir, raw))
		if _, inside := p.FS.Rel(target); !inside {
			return nil, &BrokenRef{Raw: raw, Reason: ReasonCrossProject}
		}
		raw = filepath.Base(raw)
	}

	if node, ok := p.issuesByName[raw]; ok {
		return node, nil
	}
	return nil, &BrokenRef{Raw: raw, Reason: ReasonMissing}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
