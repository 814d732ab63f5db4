package parser

import (
	"regexp"
	"strings"
)

// RefState tags an extraction result so downstream code cannot treat
// "absent" as "empty".
type RefState string

const (
	// RefFound means the section exists and yielded a value.
	RefFound RefState = "found"

	// RefAbsent means the section does not exist at all.
	RefAbsent RefState = "absent"

	// RefMalformed means the section exists but its content could not be
	// extracted. Reason explains why.
	RefMalformed RefState = "malformed"
)

// SourceRef is the outcome of extracting an issue's Source section.
type SourceRef struct {
	State RefState

	// Path is the raw relative path, verbatim from the code span. Only
	// set when State is RefFound. No normalization happens at parse time.
	Path string

	// Reason explains a RefMalformed state.
	Reason string
}

// DepList is the outcome of extracting an issue's Dependencies section.
type DepList struct {
	State RefState

	// Tokens are raw dependency tokens (numbers or filenames) in
	// declaration order with exact duplicates removed.
	Tokens []string

	// Reason explains a RefMalformed state.
	Reason string
}

var (
	codeSpanRe = regexp.MustCompile("`([^`\n]+)`")
	listItemRe = regexp.MustCompile(`^\s*[-*+]\s+(.+?)\s*$`)
)

// ParseSourceReference locates the Source section and extracts the first
// inline code-span path found in it, preserved verbatim.
func ParseSourceReference(text string) SourceRef {
	body, ok := SectionBody(text, SectionSource)
	if !ok {
		return SourceRef{State: RefAbsent}
	}

	inFence := false
	for _, line := range strings.Split(body, "\n") {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := codeSpanRe.FindStringSubmatch(line); m != nil {
			return SourceRef{State: RefFound, Path: m[1]}
		}
	}
	return SourceRef{State: RefMalformed, Reason: "no code-span path in Source section"}
}

// ParseDependencies locates the Dependencies section and flattens its
// content into raw tokens. Three encodings are accepted: bare
// comma-separated tokens on one line, a markdown list of bare tokens,
// and a markdown list of filename-like tokens. Order is preserved and
// exact duplicates are removed.
func ParseDependencies(text string) DepList {
	body, ok := SectionBody(text, SectionDependencies)
	if !ok {
		return DepList{State: RefAbsent}
	}

	var tokens []string
	seen := make(map[string]bool)
	add := func(raw string) {
		tok := strings.Trim(strings.TrimSpace(raw), "`")
		tok = strings.TrimSpace(tok)
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}

	inFence := false
	for _, line := range strings.Split(body, "\n") {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if inFence || strings.TrimSpace(line) == "" {
			continue
		}
		if m := listItemRe.FindStringSubmatch(line); m != nil {
			add(m[1])
			continue
		}
		for _, part := range strings.Split(line, ",") {
			add(part)
		}
	}

	return DepList{State: RefFound, Tokens: tokens}
}
