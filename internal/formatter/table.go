// Package formatter provides report output for gpm commands: aligned
// tables for humans and JSON for the host toolchain.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table collects columnar report rows and renders them in one pass:
// header, a dashed separator, then the data rows, aligned by tabwriter.
type Table struct {
	out      io.Writer
	headers  []string
	rows     [][]string
	maxWidth map[int]int
}

// NewTable creates a table that writes to w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		out:      w,
		headers:  headers,
		maxWidth: make(map[int]int),
	}
}

// SetMaxWidth caps the display width of a column (0-indexed). Longer
// values are truncated with "...".
func (t *Table) SetMaxWidth(col, width int) {
	t.maxWidth[col] = width
}

// AddRow appends a data row. Extra values beyond the header count are
// ignored; missing values are filled with empty strings.
func (t *Table) AddRow(values ...string) {
	cells := make([]string, len(t.headers))
	for i := range cells {
		if i < len(values) {
			cells[i] = t.clip(i, values[i])
		}
	}
	t.rows = append(t.rows, cells)
}

// Render writes the whole table. Must be called after all AddRow calls.
func (t *Table) Render() error {
	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)

	dashes := make([]string, len(t.headers))
	for i, h := range t.headers {
		dashes[i] = strings.Repeat("-", len(h))
	}

	all := make([][]string, 0, len(t.rows)+2)
	all = append(all, t.headers, dashes)
	all = append(all, t.rows...)
	for _, row := range all {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (t *Table) clip(col int, s string) string {
	max, ok := t.maxWidth[col]
	if !ok || max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
