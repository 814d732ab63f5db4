package parser

import (
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/goodpm/gpm/internal/types"
)

// Directory names that carry identity.
const (
	SpecsDirName  = "specs"
	IssuesDirName = "issues"
)

var (
	// SpecFileRe matches SPEC_<kebab-name>.md.
	SpecFileRe = regexp.MustCompile(`^SPEC_([a-z0-9]+(?:-[a-z0-9]+)*)\.md$`)

	// IssueFileRe matches <3+ digit zero-padded number>-<kebab-description>.md.
	IssueFileRe = regexp.MustCompile(`^(\d{3,})-([a-z0-9]+(?:-[a-z0-9]+)*)\.md$`)
)

// Identity is the filename-derived classification of one project file.
type Identity struct {
	Kind types.FileKind

	// SpecName is set for KindSpec.
	SpecName string

	// Number, NumberRaw and Description are set for KindIssue.
	Number      int
	NumberRaw   string
	Description string

	// Reason explains a KindMalformed classification.
	Reason string
}

// ParseIdentity classifies a file path as spec, issue, or malformed from
// its directory and filename pattern. A malformed file carries no
// identity but is always reported by the validator.
func ParseIdentity(path string) Identity {
	base := filepath.Base(path)
	dir := filepath.Base(filepath.Dir(path))

	specMatch := SpecFileRe.FindStringSubmatch(base)
	issueMatch := IssueFileRe.FindStringSubmatch(base)

	switch dir {
	case SpecsDirName:
		if specMatch != nil {
			return Identity{Kind: types.KindSpec, SpecName: specMatch[1]}
		}
		if issueMatch != nil {
			return Identity{Kind: types.KindMalformed, Reason: "issue-style filename under specs/"}
		}
		return Identity{Kind: types.KindMalformed, Reason: "does not match SPEC_<name>.md"}
	case IssuesDirName:
		if issueMatch != nil {
			num, err := strconv.Atoi(issueMatch[1])
			if err != nil {
				return Identity{Kind: types.KindMalformed, Reason: "issue number out of range"}
			}
			return Identity{
				Kind:        types.KindIssue,
				Number:      num,
				NumberRaw:   issueMatch[1],
				Description: issueMatch[2],
			}
		}
		if specMatch != nil {
			return Identity{Kind: types.KindMalformed, Reason: "spec-style filename under issues/"}
		}
		return Identity{Kind: types.KindMalformed, Reason: "does not match <number>-<description>.md"}
	}

	return Identity{Kind: types.KindMalformed, Reason: "outside specs/ and issues/"}
}
