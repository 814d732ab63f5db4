package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goodpm/gpm/internal/graph"
	"github.com/goodpm/gpm/internal/storage"
	"github.com/goodpm/gpm/internal/types"
)

func TestFromCounts(t *testing.T) {
	tests := []struct {
		checked, total int
		want           types.Status
	}{
		{0, 0, types.StatusNoTasks},
		{0, 1, types.StatusOpen},
		{0, 7, types.StatusOpen},
		{1, 3, types.StatusInProgress},
		{2, 3, types.StatusInProgress},
		{3, 3, types.StatusComplete},
		{1, 1, types.StatusComplete},
	}

	for _, tt := range tests {
		got := FromCounts(types.CheckboxCount{Checked: tt.checked, Total: tt.total})
		if got != tt.want {
			t.Errorf("FromCounts(%d/%d) = %q, want %q", tt.checked, tt.total, got, tt.want)
		}
	}
}

func TestRollup_OrderInvariant(t *testing.T) {
	nodes := []*graph.IssueNode{
		{Issue: &types.Issue{Number: 1, Counts: types.CheckboxCount{Checked: 2, Total: 3}}},
		{Issue: &types.Issue{Number: 2, Counts: types.CheckboxCount{Checked: 0, Total: 4}}},
		{Issue: &types.Issue{Number: 3, Counts: types.CheckboxCount{Checked: 1, Total: 1}}},
	}
	reversed := []*graph.IssueNode{nodes[2], nodes[1], nodes[0]}

	if got, want := Rollup(nodes), types.StatusInProgress; got != want {
		t.Errorf("Rollup = %q, want %q", got, want)
	}
	if Rollup(nodes) != Rollup(reversed) {
		t.Error("Rollup must be invariant under issue reordering")
	}
	if got := RollupCounts(nodes); got.Checked != 3 || got.Total != 8 {
		t.Errorf("RollupCounts = %v, want 3/8", got)
	}
}

func TestRollup_IgnoresSpecOwnCheckboxes(t *testing.T) {
	// A complete issue set rolls up Complete even when the spec's own
	// Acceptance Criteria are untouched.
	nodes := []*graph.IssueNode{
		{Issue: &types.Issue{Number: 1, Counts: types.CheckboxCount{Checked: 3, Total: 3}}},
	}
	if got := Rollup(nodes); got != types.StatusComplete {
		t.Errorf("Rollup = %q, want complete", got)
	}
}

// buildFixture assembles the tracker scenario: SPEC_auth at 2/4, issue
// 001 complete and linked, issue 002 open with an orphaned source.
func buildFixture(t *testing.T) *graph.Project {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"specs/SPEC_auth.md": "# Auth\n\n## Acceptance Criteria\n\n- [x] a\n- [x] b\n- [ ] c\n- [ ] d\n",
		"issues/001-login.md": "# Login\n\n## Source\n\n`../specs/SPEC_auth.md`\n\n## Tasks\n\n" +
			"- [x] a\n- [x] b\n- [x] c\n",
		"issues/002-logout.md": "# Logout\n\n## Source\n\n`../specs/SPEC_oauth.md`\n\n## Tasks\n\n" +
			"- [ ] a\n- [ ] b\n",
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

	fs, err := storage.Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	p, err := graph.Build(fs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func TestTrackerScenario(t *testing.T) {
	p := buildFixture(t)

	if got := Issue(p.Issues[0].Issue); got != types.StatusComplete {
		t.Errorf("001 status = %q, want complete", got)
	}
	if got := Issue(p.Issues[1].Issue); got != types.StatusOpen {
		t.Errorf("002 status = %q, want open", got)
	}

	spec := p.Specs[0]
	if got := SpecLocal(spec); got != types.StatusInProgress {
		t.Errorf("spec-local status = %q, want in-progress (2/4)", got)
	}

	// 002's source is orphaned, so rollup covers only 001.
	linked := p.LinkedIssues(spec)
	if len(linked) != 1 || linked[0].Number != 1 {
		t.Fatalf("linked = %+v, want [001]", linked)
	}
	if got := Rollup(linked); got != types.StatusComplete {
		t.Errorf("rollup status = %q, want complete (3/3)", got)
	}
	if got := Spec(p, spec); got != types.StatusComplete {
		t.Errorf("Spec = %q, want rollup result", got)
	}

	next := NextActionable(p)
	if next == nil || next.Number != 2 {
		t.Errorf("NextActionable = %+v, want 002", next)
	}
}

func TestNextActionable_Fallbacks(t *testing.T) {
	mk := func(counts ...types.CheckboxCount) *graph.Project {
		p := &graph.Project{}
		for i, c := range counts {
			p.Issues = append(p.Issues, &graph.IssueNode{
				Issue: &types.Issue{Number: i + 1, Counts: c},
			})
		}
		return p
	}

	// No Open issues: lowest-numbered InProgress wins.
	p := mk(
		types.CheckboxCount{Checked: 2, Total: 2},
		types.CheckboxCount{Checked: 1, Total: 2},
		types.CheckboxCount{Checked: 1, Total: 3},
	)
	if next := NextActionable(p); next == nil || next.Number != 2 {
		t.Errorf("NextActionable = %+v, want 002", next)
	}

	// Everything complete: nil.
	p = mk(types.CheckboxCount{Checked: 1, Total: 1})
	if next := NextActionable(p); next != nil {
		t.Errorf("NextActionable = %+v, want nil", next)
	}

	// No issues at all: nil.
	if next := NextActionable(mk()); next != nil {
		t.Errorf("NextActionable = %+v, want nil", next)
	}
}
