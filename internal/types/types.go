// Package types defines the data structures shared across the gpm engine:
// project entities, derived status, and the validation finding taxonomy.
package types

import "fmt"

// Status is the derived state of a spec or issue, computed from checkbox
// counts. It is never stored as independent truth.
type Status string

const (
	// StatusNoTasks means the document has no checkboxes at all.
	StatusNoTasks Status = "no-tasks"

	// StatusOpen means no checkbox is checked yet.
	StatusOpen Status = "open"

	// StatusInProgress means some but not all checkboxes are checked.
	StatusInProgress Status = "in-progress"

	// StatusComplete means every checkbox is checked.
	StatusComplete Status = "complete"
)

// CheckboxCount holds the checked/total tally for one document section.
type CheckboxCount struct {
	Checked int `json:"checked"`
	Total   int `json:"total"`
}

// Add returns the element-wise sum of two counts.
func (c CheckboxCount) Add(other CheckboxCount) CheckboxCount {
	return CheckboxCount{
		Checked: c.Checked + other.Checked,
		Total:   c.Total + other.Total,
	}
}

// String renders the count as "checked/total".
func (c CheckboxCount) String() string {
	return fmt.Sprintf("%d/%d", c.Checked, c.Total)
}

// Spec is a planning document under specs/, named SPEC_<name>.md.
type Spec struct {
	// Name is the kebab-case identifier extracted from the filename.
	Name string `json:"name"`

	// FilePath is the path relative to the project root.
	FilePath string `json:"file_path"`

	// Counts are the checkbox counts from the Acceptance Criteria section.
	Counts CheckboxCount `json:"counts"`
}

// Issue is a trackable unit of work under issues/, named
// <number>-<description>.md.
type Issue struct {
	// Number is the numeric identifier parsed from the filename prefix.
	// It is the primary sort key within a project.
	Number int `json:"number"`

	// NumberRaw preserves the zero-padded form from the filename.
	NumberRaw string `json:"number_raw"`

	// Description is the kebab-case filename segment after the number.
	Description string `json:"description"`

	// FilePath is the path relative to the project root.
	FilePath string `json:"file_path"`

	// Counts are the checkbox counts from the Tasks section.
	Counts CheckboxCount `json:"counts"`
}

// Filename returns the issue's base filename.
func (i *Issue) Filename() string {
	return fmt.Sprintf("%s-%s.md", i.NumberRaw, i.Description)
}

// FileKind classifies a file discovered under a project.
type FileKind string

const (
	// KindSpec is a well-formed spec file under specs/.
	KindSpec FileKind = "spec"

	// KindIssue is a well-formed issue file under issues/.
	KindIssue FileKind = "issue"

	// KindMalformed is a markdown file whose name or location does not
	// match either pattern. Malformed files are reported, never dropped.
	KindMalformed FileKind = "malformed"
)

// Severity ranks a finding for report ordering and exit-code decisions.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// FindingType identifies one class of structural defect.
type FindingType string

const (
	// FindingOrphanedSource: the issue's Source resolves to a spec that
	// does not exist.
	FindingOrphanedSource FindingType = "orphaned-source"

	// FindingUnlinkedIssue: the issue has no Source section at all.
	FindingUnlinkedIssue FindingType = "unlinked-issue"

	// FindingMalformedFilename: a file does not match the expected
	// pattern for its directory, or sits in the wrong directory.
	FindingMalformedFilename FindingType = "malformed-filename"

	// FindingUnreadableFile: a file could not be read; the rest of the
	// project is still processed.
	FindingUnreadableFile FindingType = "unreadable-file"

	// FindingBrokenDependency: a dependency token does not resolve to a
	// unique existing issue.
	FindingBrokenDependency FindingType = "broken-dependency"

	// FindingCircularDependency: a cycle in the issue dependency graph.
	FindingCircularDependency FindingType = "circular-dependency"

	// FindingMissingFromReadme: an issue on disk is absent from the
	// README index.
	FindingMissingFromReadme FindingType = "missing-from-readme"

	// FindingStaleReadmeEntry: the README lists an issue that does not
	// exist on disk.
	FindingStaleReadmeEntry FindingType = "stale-readme-entry"

	// FindingCrossProjectReference: a Source or Dependency escapes the
	// project root. Always surfaced, never auto-fixed.
	FindingCrossProjectReference FindingType = "cross-project-reference"
)

// severities fixes the severity per finding type.
var severities = map[FindingType]Severity{
	FindingOrphanedSource:        SeverityHigh,
	FindingUnlinkedIssue:         SeverityMedium,
	FindingMalformedFilename:     SeverityLow,
	FindingUnreadableFile:        SeverityMedium,
	FindingBrokenDependency:      SeverityHigh,
	FindingCircularDependency:    SeverityHigh,
	FindingMissingFromReadme:     SeverityLow,
	FindingStaleReadmeEntry:      SeverityLow,
	FindingCrossProjectReference: SeverityHigh,
}

// SeverityOf returns the fixed severity for a finding type.
func SeverityOf(t FindingType) Severity {
	if s, ok := severities[t]; ok {
		return s
	}
	return SeverityLow
}

// Finding is one typed validation result.
type Finding struct {
	// Type identifies the defect class.
	Type FindingType `json:"type"`

	// Severity is the fixed severity for Type.
	Severity Severity `json:"severity"`

	// Path is the file the finding is about, relative to the project root.
	Path string `json:"path,omitempty"`

	// Detail is a human-readable description with the offending value.
	Detail string `json:"detail,omitempty"`

	// Cycle holds the ordered issue numbers of a circular dependency,
	// starting and ending at the same node. Empty for other types.
	Cycle []int `json:"cycle,omitempty"`
}

// NewFinding builds a finding with the severity filled in from the type.
func NewFinding(t FindingType, path, detail string) Finding {
	return Finding{Type: t, Severity: SeverityOf(t), Path: path, Detail: detail}
}

func (f Finding) String() string {
	if f.Path == "" {
		return fmt.Sprintf("[%s] %s", f.Type, f.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Type, f.Path, f.Detail)
}
