// Package dataset holds the in-memory CSV table the viewer plots and edits.
// The table is loaded wholesale, mutated in place by category edits, and
// written back on save; a dirty flag tracks divergence from disk.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/modyf01/csv-visualizer/src/vlog"
)

// MaxCategoryValues caps how many distinct values a column may have before it
// stops being offered as a discrete category / marker value set.
const MaxCategoryValues = 30

// Table is a CSV file held in memory: a header of named columns and string
// cells. All mutation goes through methods so the dirty flag stays honest.
type Table struct {
	path    string
	columns []string
	rows    [][]string
	dirty   bool

	// unique-value cache per column name; entry.over means the cap was exceeded
	uniques map[string]uniqueEntry
}

type uniqueEntry struct {
	values []string
	over   bool
}

// Load reads a CSV file with a header row into a Table. Every row must have
// the header's column count; a file without a header row is an error.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %q has no header row", path)
	}

	t := &Table{
		path:    path,
		columns: append([]string(nil), records[0]...),
		rows:    records[1:],
		uniques: make(map[string]uniqueEntry),
	}
	vlog.Infof("loaded %s: %d rows, %d columns", path, len(t.rows), len(t.columns))
	return t, nil
}

// Path returns the file the table was loaded from or last saved to.
func (t *Table) Path() string { return t.path }

// Dirty reports whether in-memory state diverges from the last persisted state.
func (t *Table) Dirty() bool { return t.dirty }

// RowCount returns the number of data rows (header excluded).
func (t *Table) RowCount() int { return len(t.rows) }

// Columns returns the header names in file order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// ColumnIndex returns the position of a column by header name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or "" when out of bounds.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return ""
	}
	return t.rows[row][col]
}

// UniqueValues returns the sorted distinct values of a column, or (nil, false)
// when the column has more than MaxCategoryValues distinct values or does not
// exist. Results are cached until the column is edited.
func (t *Table) UniqueValues(name string) ([]string, bool) {
	if e, ok := t.uniques[name]; ok {
		if e.over {
			return nil, false
		}
		return append([]string(nil), e.values...), true
	}
	ci := t.ColumnIndex(name)
	if ci < 0 {
		return nil, false
	}
	set := make(map[string]struct{})
	for _, row := range t.rows {
		if ci >= len(row) {
			continue
		}
		set[row[ci]] = struct{}{}
		if len(set) > MaxCategoryValues {
			t.uniques[name] = uniqueEntry{over: true}
			return nil, false
		}
	}
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	t.uniques[name] = uniqueEntry{values: vals}
	return append([]string(nil), vals...), true
}

// Numeric parses a column as float64 for plotting. Cells that do not parse
// come back as NaN so series keep their row alignment.
func (t *Table) Numeric(name string) []float64 {
	ci := t.ColumnIndex(name)
	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		out[i] = math.NaN()
		if ci < 0 || ci >= len(row) {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(row[ci]), 64); err == nil {
			out[i] = v
		}
	}
	return out
}

// Column returns the raw string values of a column, row-aligned. Missing cells
// come back empty.
func (t *Table) Column(name string) []string {
	ci := t.ColumnIndex(name)
	out := make([]string, len(t.rows))
	if ci < 0 {
		return out
	}
	for i, row := range t.rows {
		if ci < len(row) {
			out[i] = row[ci]
		}
	}
	return out
}

// ReplaceRange assigns value to column name across the closed row interval
// [start, end], clamped to the table. Reversed bounds are swapped. It returns
// the number of rows written and marks the table dirty when that is non-zero.
func (t *Table) ReplaceRange(name string, start, end int, value string) (int, error) {
	ci := t.ColumnIndex(name)
	if ci < 0 {
		return 0, fmt.Errorf("no column %q", name)
	}
	if len(t.rows) == 0 {
		return 0, nil
	}
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end >= len(t.rows) {
		end = len(t.rows) - 1
	}
	if start > end {
		return 0, nil
	}
	n := 0
	for i := start; i <= end; i++ {
		if ci >= len(t.rows[i]) {
			continue
		}
		t.rows[i][ci] = value
		n++
	}
	if n > 0 {
		t.dirty = true
		delete(t.uniques, name)
		vlog.Infof("set %q=%q on rows %d..%d (%d rows)", name, value, start, end, n)
	}
	return n, nil
}

// Save writes the table back to the file it was loaded from.
func (t *Table) Save() error { return t.SaveAs(t.path) }

// SaveAs writes the table to path and makes it the table's file. On success
// the dirty flag clears; on failure in-memory state is untouched.
func (t *Table) SaveAs(path string) error {
	if path == "" {
		return fmt.Errorf("no file path set")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	t.path = path
	t.dirty = false
	vlog.Infof("saved %s (%d rows)", path, len(t.rows))
	return nil
}
