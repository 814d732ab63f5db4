package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTable_HeaderAndSeparator(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "NAME", "STATUS")
	tbl.AddRow("001-login.md", "open")
	tbl.AddRow("002-logout.md", "complete")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "NAME") || !strings.Contains(lines[0], "STATUS") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "----") {
		t.Errorf("separator = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "001-login.md") {
		t.Errorf("first row = %q", lines[2])
	}

	// tabwriter aligns the second column across rows.
	if strings.Index(lines[2], "open") != strings.Index(lines[3], "complete") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestTable_Truncation(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "DETAIL")
	tbl.SetMaxWidth(0, 10)
	tbl.AddRow("a very long detail message")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got := strings.TrimRight(lines[2], " "); got != "a very ..." {
		t.Errorf("truncated cell = %q, want %q", got, "a very ...")
	}
}

func TestTable_ShortValuesUntouched(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "DETAIL")
	tbl.SetMaxWidth(0, 10)
	tbl.AddRow("short")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "short") {
		t.Errorf("short value mangled:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "...") {
		t.Errorf("short value truncated:\n%s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]string{"path": "specs/<SPEC_a>.md"}
	if err := WriteJSON(&buf, v); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	// HTML escaping is off so paths stay readable verbatim.
	if !strings.Contains(buf.String(), "<SPEC_a>") {
		t.Errorf("path not emitted verbatim: %s", buf.String())
	}

	var back map[string]string
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if back["path"] != v["path"] {
		t.Errorf("round trip = %q", back["path"])
	}
}
