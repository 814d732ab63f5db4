// Package storage handles filesystem access for a project: directory
// discovery, per-file read isolation, and atomic writes.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goodpm/gpm/internal/types"
)

const (
	// SpecsDir is the well-known spec directory name.
	SpecsDir = "specs"

	// IssuesDir is the well-known issue directory name.
	IssuesDir = "issues"

	// ReadmeFile is the well-known index file name.
	ReadmeFile = "README.md"
)

// ProjectFS provides read and write access to one project tree.
type ProjectFS struct {
	// Root is the absolute project root directory.
	Root string
}

// Open validates the project layout and returns a ProjectFS. The root is
// absolutized so that reference resolution works the same whether the
// caller passed "." or a full path. A missing root or missing
// specs//issues/ directory is fatal for the invoked operation.
func Open(root string) (*ProjectFS, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrNotAProject, root)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", types.ErrNotAProject, root)
	}
	if !dirExists(filepath.Join(root, SpecsDir)) {
		return nil, fmt.Errorf("%w: %s", types.ErrMissingSpecsDir, root)
	}
	if !dirExists(filepath.Join(root, IssuesDir)) {
		return nil, fmt.Errorf("%w: %s", types.ErrMissingIssuesDir, root)
	}
	return &ProjectFS{Root: root}, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListMarkdown returns the markdown filenames in a project subdirectory,
// sorted for deterministic traversal.
func (p *ProjectFS) ListMarkdown(subdir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(p.Root, subdir))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", subdir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile reads a file relative to the project root.
func (p *ProjectFS) ReadFile(rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(p.Root, rel))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadmePath returns the index file path relative to the project root.
func (p *ProjectFS) ReadmePath() string {
	return ReadmeFile
}

// Abs returns the absolute path for a project-relative path.
func (p *ProjectFS) Abs(rel string) string {
	return filepath.Join(p.Root, rel)
}

// Rel converts an absolute path to a project-relative one. The second
// return is false when the path lies outside the project root.
func (p *ProjectFS) Rel(abs string) (string, bool) {
	rel, err := filepath.Rel(p.Root, abs)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
