// Package readme handles the project index file: extracting the issues
// it claims to list and rewriting the managed issue-table region while
// preserving everything outside it.
package readme

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goodpm/gpm/internal/types"
)

// Markers delimit the managed issue-table region. Content outside the
// markers is never touched by sync.
const (
	BeginMarker = "<!-- gpm:issues:begin -->"
	EndMarker   = "<!-- gpm:issues:end -->"
)

var issueNameRe = regexp.MustCompile(`\b(\d{3,}-[a-z0-9]+(?:-[a-z0-9]+)*\.md)\b`)

// ListedIssues returns the issue filenames the README mentions, in
// first-mention order. Fenced code blocks are skipped so that example
// snippets do not count as index entries.
func ListedIssues(content string) []string {
	var names []string
	seen := make(map[string]bool)
	inFence := false

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, m := range issueNameRe.FindAllString(line, -1) {
			if !seen[m] {
				seen[m] = true
				names = append(names, m)
			}
		}
	}
	return names
}

// Row is one line of the managed issue table.
type Row struct {
	Filename string
	Status   types.Status
	Counts   types.CheckboxCount
}

// RenderTable renders the managed issue table, rows sorted by filename
// (which sorts by zero-padded number first).
func RenderTable(rows []Row) string {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Filename < sorted[j].Filename })

	var b strings.Builder
	b.WriteString("| Issue | Status | Tasks |\n")
	b.WriteString("|---|---|---|\n")
	for _, r := range sorted {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Filename, r.Status, r.Counts)
	}
	return b.String()
}

// Sync replaces the managed region's content with the rendered table.
// When no markers exist yet, a new managed region is appended to the end
// of the README. All content outside the region is preserved verbatim.
func Sync(content, table string) string {
	region := BeginMarker + "\n" + table + EndMarker

	begin := strings.Index(content, BeginMarker)
	end := strings.Index(content, EndMarker)
	if begin >= 0 && end > begin {
		return content[:begin] + region + content[end+len(EndMarker):]
	}

	if content == "" {
		return region + "\n"
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + region + "\n"
}
