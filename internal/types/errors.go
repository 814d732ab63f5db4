package types

import "errors"

// Sentinel errors for project-level failures. Using sentinels allows
// callers to match with errors.Is for reliable error handling.
var (
	// ErrNotAProject is returned when the project root does not exist or
	// is not a directory.
	ErrNotAProject = errors.New("not a project directory")

	// ErrMissingSpecsDir is returned when the project has no specs/ directory.
	ErrMissingSpecsDir = errors.New("missing specs/ directory")

	// ErrMissingIssuesDir is returned when the project has no issues/ directory.
	ErrMissingIssuesDir = errors.New("missing issues/ directory")

	// ErrNotConfirmed is returned when a mutating operation runs without
	// explicit confirmation.
	ErrNotConfirmed = errors.New("fix not confirmed")

	// ErrSectionNotFound is returned when a targeted rewrite cannot
	// locate the section it is allowed to edit.
	ErrSectionNotFound = errors.New("section not found")
)
