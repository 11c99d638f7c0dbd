// Package wpro loads WaferPro CSV measurement summaries: a `*`-commented
// preamble followed by one header row and one data row per
// device-measurement instance.
package wpro

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Well-known column names used downstream.
const (
	ColWafer       = "Wafer"
	ColDie         = "Die"
	ColTemperature = "Temperature (C)"
	ColBlock       = "Block"
	ColSubsite     = "Subsite"
	ColName        = "Name"

	// Sentinel columns bounding the result-column run. Neither carries data.
	colResultStart = "$"
	colResultEnd   = "ResultRead"
)

// Table is a loaded WPro CSV: the header columns in file order and the data
// rows, all cells kept as strings. Numeric interpretation is deferred to the
// statistics layer.
type Table struct {
	Columns []string

	rows  [][]string
	index map[string]int
}

// Load reads and parses a WPro CSV file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wpro file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// Parse locates the first line that does not start with `*`, treats it as
// the header row and parses the remainder as comma-delimited data. A file
// consisting entirely of comment lines is a format error.
func Parse(content []byte) (*Table, error) {
	lines := strings.Split(string(content), "\n")
	skip := -1
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "*") {
			skip = i
			break
		}
	}
	if skip < 0 {
		return nil, errors.New("no header row: every line is a comment")
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines[skip:], "\n")))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no header row: file is empty")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}
	t := &Table{
		Columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := strings.TrimSpace(h)
		t.Columns[i] = name
		if _, ok := t.index[name]; !ok {
			t.index[name] = i
		}
	}

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.rows)+1, err)
		}
		if len(rec) < len(t.Columns) {
			padded := make([]string, len(t.Columns))
			copy(padded, rec)
			rec = padded
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Get returns the cell at data row i for the named column, or "" when the
// column does not exist.
func (t *Table) Get(i int, col string) string {
	idx, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.rows) || idx >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][idx])
}

// Unique returns the distinct values of a column in first-encountered order.
func (t *Table) Unique(col string) []string {
	if !t.HasColumn(col) {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range t.rows {
		v := t.Get(i, col)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Wafers, Dies, Temperatures, Blocks, Subsites and Names expose the unique
// values of the well-known columns.
func (t *Table) Wafers() []string       { return t.Unique(ColWafer) }
func (t *Table) Dies() []string         { return t.Unique(ColDie) }
func (t *Table) Temperatures() []string { return t.Unique(ColTemperature) }
func (t *Table) Blocks() []string       { return t.Unique(ColBlock) }
func (t *Table) Subsites() []string     { return t.Unique(ColSubsite) }
func (t *Table) Names() []string        { return t.Unique(ColName) }

// ResultColumns returns the columns strictly between the first `$` column
// and the first `ResultRead` column, in file order. Both sentinels are
// excluded; if either is absent the result set is empty.
func (t *Table) ResultColumns() []string {
	start, end := -1, -1
	for i, c := range t.Columns {
		if c == colResultStart && start < 0 {
			start = i
		}
		if c == colResultEnd && end < 0 {
			end = i
		}
	}
	if start < 0 || end < 0 || start+1 >= end {
		return nil
	}
	out := make([]string, end-start-1)
	copy(out, t.Columns[start+1:end])
	return out
}
