// Package parser extracts structured facts from project markdown files:
// checkbox counts, Source references, Dependencies lists, and
// filename-encoded identity. It never interprets prose semantics.
package parser

import (
	"regexp"
	"strings"

	"github.com/goodpm/gpm/internal/types"
)

// Well-known section names.
const (
	SectionAcceptance   = "Acceptance Criteria"
	SectionTasks        = "Tasks"
	SectionSource       = "Source"
	SectionDependencies = "Dependencies"
)

var (
	uncheckedRe = regexp.MustCompile(`^\s*[-*+]\s+\[ \]`)
	checkedRe   = regexp.MustCompile(`^\s*[-*+]\s+\[[xX]\]`)
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
)

// CountCheckboxes scans text line by line and tallies checked and total
// checkboxes. Lines inside fenced code blocks never count. When section
// is non-empty, only the body of that section is scanned; a missing
// section yields a zero count.
func CountCheckboxes(text, section string) types.CheckboxCount {
	if section != "" {
		body, ok := SectionBody(text, section)
		if !ok {
			return types.CheckboxCount{}
		}
		text = body
	}

	var count types.CheckboxCount
	inFence := false
	for _, line := range strings.Split(text, "\n") {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		switch {
		case checkedRe.MatchString(line):
			count.Checked++
			count.Total++
		case uncheckedRe.MatchString(line):
			count.Total++
		}
	}
	return count
}

// isFenceDelimiter reports whether a line opens or closes a fenced code
// block. Indented fences are tolerated.
func isFenceDelimiter(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

// SectionBody returns the body of the named section: the lines after a
// heading whose text equals name (case-insensitive), up to the next
// heading of the same or higher level. Headings inside code fences are
// ignored.
func SectionBody(text, name string) (string, bool) {
	lines := strings.Split(text, "\n")
	start, end, ok := SectionSpan(lines, name)
	if !ok {
		return "", false
	}
	return strings.Join(lines[start:end], "\n"), true
}

// SectionSpan returns the half-open line range [start, end) of the named
// section's body within lines. The heading line itself is excluded.
func SectionSpan(lines []string, name string) (start, end int, ok bool) {
	inFence := false
	startLevel := 0
	collecting := false

	for i, line := range lines {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level := len(m[1])
		if collecting {
			if level <= startLevel {
				return start, i, true
			}
			continue
		}
		if strings.EqualFold(strings.TrimSpace(m[2]), name) {
			collecting = true
			startLevel = level
			start = i + 1
		}
	}

	if collecting {
		return start, len(lines), true
	}
	return 0, 0, false
}
