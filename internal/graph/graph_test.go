package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goodpm/gpm/internal/storage"
)

// writeProject lays out a project fixture in a temp dir. files maps
// project-relative paths to content.
func writeProject(t *testing.T, files map[string]string) *storage.ProjectFS {
	t.Helper()
	root := t.TempDir()

	for _, dir := range []string{storage.SpecsDir, storage.IssuesDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}

	fs, err := storage.Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return fs
}

const authSpec = "# Auth\n\n## Acceptance Criteria\n\n- [x] a\n- [x] b\n- [ ] c\n- [ ] d\n"

func issueDoc(source, tasks, deps string) string {
	doc := "# Issue\n"
	if source != "" {
		doc += "\n## Source\n\n`" + source + "`\n"
	}
	doc += "\n## Tasks\n\n" + tasks
	if deps != "" {
		doc += "\n## Dependencies\n\n" + deps
	}
	return doc
}

func TestBuild_LinksIssuesToSpecs(t *testing.T) {
	fs := writeProject(t, map[string]string{
		"specs/SPEC_auth.md":  authSpec,
		"issues/001-login.md": issueDoc("../specs/SPEC_auth.md", "- [x] done\n", ""),
		"issues/002-logout.md": issueDoc("../specs/SPEC_auth.md", "- [ ] todo\n",
			"- 001\n"),
	})

	p, err := Build(fs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(p.Specs) != 1 || p.Specs[0].Name != "auth" {
		t.Fatalf("Specs = %+v, want one spec auth", p.Specs)
	}
	if got := p.Specs[0].Counts; got.Checked != 2 || got.Total != 4 {
		t.Errorf("spec counts = %v, want 2/4", got)
	}

	if len(p.Issues) != 2 {
		t.Fatalf("Issues = %d, want 2", len(p.Issues))
	}
	linked := p.LinkedIssues(p.Specs[0])
	if len(linked) != 2 {
		t.Fatalf("linked issues = %d, want 2", len(linked))
	}
	if len(p.Unlinked) != 0 {
		t.Errorf("Unlinked = %d, want 0", len(p.Unlinked))
	}

	second := p.Issues[1]
	if len(second.DepIssues) != 1 || second.DepIssues[0].Number != 1 {
		t.Errorf("002 dependencies = %+v, want [001]", second.DepIssues)
	}
}

func TestBuild_RelativeProjectRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "proj")
	files := map[string]string{
		"specs/SPEC_auth.md":  authSpec,
		"issues/001-login.md": issueDoc("../specs/SPEC_auth.md", "- [x] done\n", ""),
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(parent); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})

	fs, err := storage.Open("proj")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	p, err := Build(fs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// A valid in-project reference must resolve identically whether the
	// root was given as "." style relative path or absolute.
	node := p.Issues[0]
	if node.SourceBroken != nil {
		t.Fatalf("SourceBroken = %s, want resolved", node.SourceBroken)
	}
	if node.Spec == nil || node.Spec.Name != "auth" {
		t.Errorf("Spec = %+v, want auth", node.Spec)
	}
	if len(p.Unlinked) != 0 {
		t.Errorf("Unlinked = %d, want 0", len(p.Unlinked))
	}
}

func TestBuild_SourceResolutionReasons(t *testing.T) {
	fs := writeProject(t, map[string]string{
		"specs/SPEC_auth.md": authSpec,
		"specs/notes.md":     "scratch\n",

		"issues/001-missing.md":  issueDoc("../specs/SPEC_oauth.md", "- [ ] a\n", ""),
		"issues/002-pattern.md":  issueDoc("../specs/notes.md", "- [ ] a\n", ""),
		"issues/003-cross.md":    issueDoc("../../elsewhere/specs/SPEC_x.md", "- [ ] a\n", ""),
		"issues/004-prefix.md":   issueDoc("specs/SPEC_auth.md", "- [ ] a\n", ""),
		"issues/005-unlinked.md": issueDoc("", "- [ ] a\n", ""),
	})

	p, err := Build(fs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[int]BreakReason{
		1: ReasonMissingFile,
		2: ReasonWrongPattern,
		3: ReasonCrossProject,
		4: ReasonWrongPrefix,
	}
	for _, node := range p.Issues {
		reason, expectBroken := want[node.Number]
		if !expectBroken {
			continue
		}
		if node.SourceBroken == nil {
			t.Errorf("issue %03d: SourceBroken = nil, want %s", node.Number, reason)
			continue
		}
		if node.SourceBroken.Reason != reason {
			t.Errorf("issue %03d: reason = %s, want %s", node.Number, node.SourceBroken.Reason, reason)
		}
	}

	// Broken and absent sources all land in the unlinked bucket as
	// first-class nodes.
	if len(p.Unlinked) != 5 {
		t.Errorf("Unlinked = %d, want 5", len(p.Unlinked))
	}
	if len(p.Issues) != 5 {
		t.Errorf("Issues = %d, want 5 (unlinked issues are never discarded)", len(p.Issues))
	}
}

func TestBuild_DependencyResolution(t *testing.T) {
	fs := writeProject(t, map[string]string{
		"specs/SPEC_auth.md":    authSpec,
		"issues/001-first.md":   issueDoc("../specs/SPEC_auth.md", "- [ ] a\n", "- 002\n- 404\n- 003-third.md\n"),
		"issues/002-second.md":  issueDoc("../specs/SPEC_auth.md", "- [ ] a\n", "- ../../other/issues/009-x.md\n"),
		"issues/003-third.md":   issueDoc("../specs/SPEC_auth.md", "- [ ] a\n", ""),
		"issues/004-dupe.md":    issueDoc("../specs/SPEC_auth.md", "- [ ] a\n", "- 005\n"),
		"issues/005-twin-a.md":  issueDoc("../specs/SPEC_auth.md", "- [ ] a\n", ""),
		"issues/0005-twin-b.md": issueDoc("../specs/SPEC_auth.md", "- [ ] a\n", ""),
	})

	p, err := Build(fs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	byNumber := make(map[int]*IssueNode)
	for _, node := range p.Issues {
		if node.Description == "twin-b" {
			continue
		}
		byNumber[node.Number] = node
	}

	first := byNumber[1]
	if len(first.DepIssues) != 2 {
		t.Fatalf("001 resolved deps = %d, want 2 (numeric and filename)", len(first.DepIssues))
	}
	if len(first.DepBroken) != 1 || first.DepBroken[0].Reason != ReasonMissing {
		t.Errorf("001 broken deps = %+v, want one missing", first.DepBroken)
	}

	second := byNumber[2]
	if len(second.DepBroken) != 1 || second.DepBroken[0].Reason != ReasonCrossProject {
		t.Errorf("002 broken deps = %+v, want one cross_project", second.DepBroken)
	}

	// 005 and 0005 share a numeric prefix; a numeric token is ambiguous.
	dupe := byNumber[4]
	if len(dupe.DepBroken) != 1 || dupe.DepBroken[0].Reason != ReasonAmbiguous {
		t.Errorf("004 broken deps = %+v, want one ambiguous", dupe.DepBroken)
	}
}
