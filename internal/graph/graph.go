// Package graph assembles parsed file facts into the project graph:
// specs as roots, issues linked to a parent spec and to dependency
// issues. Raw references are resolved here; defect detection lives in
// the validate package.
package graph

import (
	"path/filepath"
	"sort"

	"github.com/goodpm/gpm/internal/parser"
	"github.com/goodpm/gpm/internal/storage"
	"github.com/goodpm/gpm/internal/types"
)

// IssueNode is an issue plus its parsed references and resolved edges.
type IssueNode struct {
	*types.Issue

	// Source is the raw Source extraction result.
	Source parser.SourceRef

	// Spec is the resolved parent spec; nil when the issue is unlinked
	// or its reference is broken.
	Spec *types.Spec

	// SourceBroken describes a Source that was present but failed to
	// resolve.
	SourceBroken *BrokenRef

	// Deps is the raw Dependencies extraction result.
	Deps parser.DepList

	// DepIssues are the successfully resolved dependency edges, in
	// declaration order.
	DepIssues []*IssueNode

	// DepBroken are the dependency tokens that failed to resolve.
	DepBroken []BrokenRef
}

// MalformedFile records a file excluded from the graph because its name
// or location carries no identity.
type MalformedFile struct {
	Path   string
	Reason string
}

// UnreadableFile records a file that could not be read. Processing
// continues with the rest of the project.
type UnreadableFile struct {
	Path string
	Err  error
}

// Project is the fully built graph for one project root.
type Project struct {
	FS *storage.ProjectFS

	// Specs, sorted by name.
	Specs      []*types.Spec
	SpecByPath map[string]*types.Spec

	// Issues, sorted by number then filename.
	Issues []*IssueNode

	// issuesByNumber tracks every issue sharing a numeric prefix, for
	// ambiguity detection during dependency resolution.
	issuesByNumber map[int][]*IssueNode
	issuesByName   map[string]*IssueNode

	// SpecIssues maps spec name to its linked issues.
	SpecIssues map[string][]*IssueNode

	// Unlinked holds issues with no resolved parent spec. They remain
	// first-class nodes, never discarded.
	Unlinked []*IssueNode

	Malformed  []MalformedFile
	Unreadable []UnreadableFile

	// Readme is the index file content; HasReadme is false when the
	// project has no README.
	Readme    string
	HasReadme bool
}

// Build discovers, parses, and links every file under the project root.
// Per-file failures are isolated; only a broken project layout is fatal.
func Build(fs *storage.ProjectFS) (*Project, error) {
	p := &Project{
		FS:             fs,
		SpecByPath:     make(map[string]*types.Spec),
		issuesByNumber: make(map[int][]*IssueNode),
		issuesByName:   make(map[string]*IssueNode),
		SpecIssues:     make(map[string][]*IssueNode),
	}

	if err := p.loadSpecs(); err != nil {
		return nil, err
	}
	if err := p.loadIssues(); err != nil {
		return nil, err
	}
	p.loadReadme()
	p.link()

	return p, nil
}

func (p *Project) loadSpecs() error {
	names, err := p.FS.ListMarkdown(storage.SpecsDir)
	if err != nil {
		return err
	}

	for _, name := range names {
		rel := filepath.Join(storage.SpecsDir, name)
		id := parser.ParseIdentity(rel)
		if id.Kind != types.KindSpec {
			p.Malformed = append(p.Malformed, MalformedFile{Path: rel, Reason: id.Reason})
			continue
		}

		text, err := p.FS.ReadFile(rel)
		if err != nil {
			p.Unreadable = append(p.Unreadable, UnreadableFile{Path: rel, Err: err})
			continue
		}

		spec := &types.Spec{
			Name:     id.SpecName,
			FilePath: rel,
			Counts:   parser.CountCheckboxes(text, parser.SectionAcceptance),
		}
		p.Specs = append(p.Specs, spec)
		p.SpecByPath[rel] = spec
	}

	sort.Slice(p.Specs, func(i, j int) bool { return p.Specs[i].Name < p.Specs[j].Name })
	return nil
}

func (p *Project) loadIssues() error {
	names, err := p.FS.ListMarkdown(storage.IssuesDir)
	if err != nil {
		return err
	}

	for _, name := range names {
		rel := filepath.Join(storage.IssuesDir, name)
		id := parser.ParseIdentity(rel)
		if id.Kind != types.KindIssue {
			p.Malformed = append(p.Malformed, MalformedFile{Path: rel, Reason: id.Reason})
			continue
		}

		text, err := p.FS.ReadFile(rel)
		if err != nil {
			p.Unreadable = append(p.Unreadable, UnreadableFile{Path: rel, Err: err})
			continue
		}

		node := &IssueNode{
			Issue: &types.Issue{
				Number:      id.Number,
				NumberRaw:   id.NumberRaw,
				Description: id.Description,
				FilePath:    rel,
				Counts:      parser.CountCheckboxes(text, parser.SectionTasks),
			},
			Source: parser.ParseSourceReference(text),
			Deps:   parser.ParseDependencies(text),
		}
		p.Issues = append(p.Issues, node)
		p.issuesByNumber[node.Number] = append(p.issuesByNumber[node.Number], node)
		p.issuesByName[node.Filename()] = node
	}

	sort.Slice(p.Issues, func(i, j int) bool {
		if p.Issues[i].Number != p.Issues[j].Number {
			return p.Issues[i].Number < p.Issues[j].Number
		}
		return p.Issues[i].Filename() < p.Issues[j].Filename()
	})
	return nil
}

func (p *Project) loadReadme() {
	text, err := p.FS.ReadFile(p.FS.ReadmePath())
	if err != nil {
		return
	}
	p.Readme = text
	p.HasReadme = true
}

// link resolves every raw reference into graph edges.
func (p *Project) link() {
	for _, node := range p.Issues {
		p.linkSource(node)
		p.linkDependencies(node)
	}
}

func (p *Project) linkSource(node *IssueNode) {
	if node.Source.State != parser.RefFound {
		p.Unlinked = append(p.Unlinked, node)
		return
	}

	spec, broken := p.resolveSource(node.Source.Path)
	if broken != nil {
		node.SourceBroken = broken
		p.Unlinked = append(p.Unlinked, node)
		return
	}

	node.Spec = spec
	p.SpecIssues[spec.Name] = append(p.SpecIssues[spec.Name], node)
}

func (p *Project) linkDependencies(node *IssueNode) {
	if node.Deps.State != parser.RefFound {
		return
	}
	for _, tok := range node.Deps.Tokens {
		dep, broken := p.resolveDependency(tok)
		if broken != nil {
			node.DepBroken = append(node.DepBroken, *broken)
			continue
		}
		node.DepIssues = append(node.DepIssues, dep)
	}
}

// LinkedIssues returns the issues linked to a spec, in number order.
func (p *Project) LinkedIssues(spec *types.Spec) []*IssueNode {
	return p.SpecIssues[spec.Name]
}

// IssueByFilename returns the issue with the exact base filename, if any.
func (p *Project) IssueByFilename(name string) (*IssueNode, bool) {
	node, ok := p.issuesByName[name]
	return node, ok
}
