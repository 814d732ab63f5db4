package fixer

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goodpm/gpm/internal/parser"
	"github.com/goodpm/gpm/internal/readme"
	"github.com/goodpm/gpm/internal/storage"
	"github.com/goodpm/gpm/internal/types"
)

var codeSpanRe = regexp.MustCompile("`([^`\n]+)`")

// Failure records one change that could not be applied.
type Failure struct {
	Change Change `json:"change"`
	Err    string `json:"error"`
}

// ApplyReport summarizes a batch application: which changes were
// written and which failed. Applied changes are never rolled back when a
// later one fails; each file write is independently atomic.
type ApplyReport struct {
	Applied []Change  `json:"applied"`
	Failed  []Failure `json:"failed"`
}

// Apply writes every change in the set, file by file. It refuses to run
// without explicit confirmation. A per-file failure does not abort the
// batch; the report carries the final outcome of every change.
func Apply(fs *storage.ProjectFS, cs *ChangeSet, confirmed bool) (*ApplyReport, error) {
	if !confirmed {
		return nil, types.ErrNotConfirmed
	}

	report := &ApplyReport{}
	for _, change := range cs.Changes {
		if err := applyOne(fs, change); err != nil {
			report.Failed = append(report.Failed, Failure{Change: change, Err: err.Error()})
			continue
		}
		report.Applied = append(report.Applied, change)
	}
	return report, nil
}

func applyOne(fs *storage.ProjectFS, change Change) error {
	switch change.Kind {
	case KindSourceFix:
		return applyTextRewrite(fs, change.Path, func(text string) (string, error) {
			return rewriteSource(text, change.NewSource)
		})
	case KindDependencyFix:
		return applyTextRewrite(fs, change.Path, func(text string) (string, error) {
			return rewriteDependencies(text, change.NewDeps)
		})
	case KindReadmeSync:
		current, err := fs.ReadFile(change.Path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("read %s: %w", change.Path, err)
		}
		return fs.WriteFileAtomic(change.Path, []byte(readme.Sync(current, change.NewTable)))
	}
	return fmt.Errorf("unknown change kind %q", change.Kind)
}

func applyTextRewrite(fs *storage.ProjectFS, path string, rewrite func(string) (string, error)) error {
	text, err := fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	rewritten, err := rewrite(text)
	if err != nil {
		return err
	}
	if rewritten == text {
		return nil
	}
	return fs.WriteFileAtomic(path, []byte(rewritten))
}

// rewriteSource replaces the interior of the first code span in the
// Source section with newPath. Every other byte of the file is
// preserved.
func rewriteSource(text, newPath string) (string, error) {
	lines := strings.Split(text, "\n")
	start, end, ok := parser.SectionSpan(lines, parser.SectionSource)
	if !ok {
		return "", fmt.Errorf("%w: Source", types.ErrSectionNotFound)
	}

	inFence := false
	for i := start; i < end; i++ {
		line := lines[i]
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		loc := codeSpanRe.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		lines[i] = line[:loc[2]] + newPath + line[loc[3]:]
		return strings.Join(lines, "\n"), nil
	}
	return "", fmt.Errorf("%w: no code-span path in Source section", types.ErrSectionNotFound)
}

// rewriteDependencies replaces the contentful lines of the Dependencies
// section with a markdown list of full filenames in their declared
// order. Blank padding around the list and everything outside the
// section are preserved.
func rewriteDependencies(text string, filenames []string) (string, error) {
	lines := strings.Split(text, "\n")
	start, end, ok := parser.SectionSpan(lines, parser.SectionDependencies)
	if !ok {
		return "", fmt.Errorf("%w: Dependencies", types.ErrSectionNotFound)
	}

	first, last := -1, -1
	for i := start; i < end; i++ {
		if strings.TrimSpace(lines[i]) != "" {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	list := make([]string, len(filenames))
	for i, name := range filenames {
		list[i] = "- " + name
	}

	var out []string
	if first < 0 {
		// Empty section body: insert the list at its end.
		out = append(out, lines[:end]...)
		out = append(out, list...)
		out = append(out, lines[end:]...)
	} else {
		out = append(out, lines[:first]...)
		out = append(out, list...)
		out = append(out, lines[last+1:]...)
	}
	return strings.Join(out, "\n"), nil
}
