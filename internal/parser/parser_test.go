package parser

import (
	"testing"

	"github.com/goodpm/gpm/internal/types"
)

func TestCountCheckboxes(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		section string
		want    types.CheckboxCount
	}{
		{
			name: "mixed checked and unchecked",
			text: "- [x] done\n- [ ] pending\n- [X] also done\n",
			want: types.CheckboxCount{Checked: 2, Total: 3},
		},
		{
			name: "no checkboxes",
			text: "just prose\n- a plain list item\n",
			want: types.CheckboxCount{},
		},
		{
			name: "star and plus markers count",
			text: "* [x] one\n+ [ ] two\n- [ ] three\n",
			want: types.CheckboxCount{Checked: 1, Total: 3},
		},
		{
			name: "indented items count",
			text: "  - [x] nested\n\t- [ ] tabbed\n",
			want: types.CheckboxCount{Checked: 1, Total: 2},
		},
		{
			name: "fenced code excluded",
			text: "- [x] real\n```\n- [ ] example only\n- [x] example only\n```\n- [ ] real\n",
			want: types.CheckboxCount{Checked: 1, Total: 2},
		},
		{
			name:    "scoped to section",
			text:    "# Issue\n\n## Tasks\n\n- [x] in scope\n- [ ] in scope\n\n## Notes\n\n- [ ] out of scope\n",
			section: "Tasks",
			want:    types.CheckboxCount{Checked: 1, Total: 2},
		},
		{
			name:    "section missing yields zero",
			text:    "# Issue\n\n- [x] whole doc only\n",
			section: "Tasks",
			want:    types.CheckboxCount{},
		},
		{
			name:    "section match is case-insensitive",
			text:    "## tasks\n\n- [ ] a\n",
			section: "Tasks",
			want:    types.CheckboxCount{Total: 1},
		},
		{
			name: "malformed brackets ignored",
			text: "- [y] not a checkbox\n- [] no space\n- [ ] real\n",
			want: types.CheckboxCount{Total: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountCheckboxes(tt.text, tt.section)
			if got != tt.want {
				t.Errorf("CountCheckboxes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSectionBody(t *testing.T) {
	text := "# Title\n\n## Tasks\n\n- [ ] a\n\n### Subtasks\n\n- [ ] b\n\n## Notes\n\nprose\n"

	body, ok := SectionBody(text, "Tasks")
	if !ok {
		t.Fatal("SectionBody(Tasks) not found")
	}
	// Sub-sections belong to the body; the next same-level heading ends it.
	if want := "\n- [ ] a\n\n### Subtasks\n\n- [ ] b\n"; body != want {
		t.Errorf("SectionBody = %q, want %q", body, want)
	}

	if _, ok := SectionBody(text, "Absent"); ok {
		t.Error("SectionBody(Absent) found, want not found")
	}
}

func TestSectionBody_HeadingInsideFenceIgnored(t *testing.T) {
	text := "## Tasks\n\n```\n## Notes\n```\n\n- [ ] still tasks\n"

	body, ok := SectionBody(text, "Tasks")
	if !ok {
		t.Fatal("SectionBody(Tasks) not found")
	}
	count := CountCheckboxes(body, "")
	if count.Total != 1 {
		t.Errorf("Total = %d, want 1 (fenced heading must not end the section)", count.Total)
	}

	if _, ok := SectionBody(text, "Notes"); ok {
		t.Error("fenced heading matched as a section")
	}
}
