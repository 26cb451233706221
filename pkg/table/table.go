// Package table implements the tabular value type the survey pipeline is
// built on: a fixed, ordered set of named columns over an ordered sequence of
// rows. Cell values are dynamically typed (string until the cast stage, then
// int/float64/time.Time/string); a missing value is nil.
//
// Every verb (Filter, Project, Drop, Rename, Distinct, SortBy) returns a new
// Table and never mutates its receiver, so a table handed to a downstream
// pipeline stage is a stable snapshot. The verb set is intentionally small
// and fixed; there is no expression language and no query planner.
package table

import (
	"fmt"
)

// Table is an ordered collection of rows under a fixed, ordered, named set of
// columns. Column names are unique. The zero value is not usable; construct
// with New.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]any
}

// New constructs an empty Table with the given column names, in order.
// It panics on a duplicate or empty column name: column sets in this pipeline
// are compile-time constants, so a bad set is a programming error, not input
// corruption.
func New(cols ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c == "" {
			panic("table: empty column name")
		}
		if _, dup := t.index[c]; dup {
			panic(fmt.Sprintf("table: duplicate column %q", c))
		}
		t.index[c] = i
	}
	return t
}

// Columns returns a copy of the ordered column names.
func (t *Table) Columns() []string { return append([]string(nil), t.cols...) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// AppendRow adds one row. The number of values must equal the number of
// columns.
func (t *Table) AppendRow(vals ...any) error {
	if len(vals) != len(t.cols) {
		return fmt.Errorf("table: row has %d values, want %d", len(vals), len(t.cols))
	}
	t.rows = append(t.rows, append([]any(nil), vals...))
	return nil
}

// MustAppendRow is AppendRow for call sites where the width is statically
// correct (tests, fixtures).
func (t *Table) MustAppendRow(vals ...any) {
	if err := t.AppendRow(vals...); err != nil {
		panic(err)
	}
}

// Value returns the cell at (row, col). It panics on an unknown column or an
// out-of-range row, mirroring slice indexing.
func (t *Table) Value(row int, col string) any {
	i, ok := t.index[col]
	if !ok {
		panic(fmt.Sprintf("table: no column %q", col))
	}
	return t.rows[row][i]
}

// Row is a read-only view of a single table row.
type Row struct {
	t   *Table
	idx int
}

// RowAt returns a view of row i.
func (t *Table) RowAt(i int) Row { return Row{t: t, idx: i} }

// Value returns the cell under col for this row.
func (r Row) Value(col string) any { return r.t.Value(r.idx, col) }

// String returns the cell under col as a string, or "" when the cell is nil
// or not a string. Intended for the pre-cast stages where every cell is text.
func (r Row) String(col string) string {
	if s, ok := r.Value(col).(string); ok {
		return s
	}
	return ""
}

// Filter returns a new table containing, in order, the rows for which keep
// returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.cols...)
	for i := range t.rows {
		if keep(Row{t: t, idx: i}) {
			out.rows = append(out.rows, append([]any(nil), t.rows[i]...))
		}
	}
	return out
}

// Project returns a new table restricted to the named columns, in the given
// order.
func (t *Table) Project(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("table: project: no column %q", c)
		}
		idx[i] = j
	}
	out := New(cols...)
	for _, row := range t.rows {
		vals := make([]any, len(idx))
		for i, j := range idx {
			vals[i] = row[j]
		}
		out.rows = append(out.rows, vals)
	}
	return out, nil
}

// Drop returns a new table without the named columns, preserving the order of
// the remaining ones.
func (t *Table) Drop(cols ...string) (*Table, error) {
	gone := make(map[string]bool, len(cols))
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			return nil, fmt.Errorf("table: drop: no column %q", c)
		}
		gone[c] = true
	}
	keep := make([]string, 0, len(t.cols)-len(cols))
	for _, c := range t.cols {
		if !gone[c] {
			keep = append(keep, c)
		}
	}
	return t.Project(keep...)
}

// Rename returns a new table with column old renamed to new. Cell values are
// shared with the receiver; since tables are never mutated in place after a
// stage hands them off, sharing is safe.
func (t *Table) Rename(old, new string) (*Table, error) {
	i, ok := t.index[old]
	if !ok {
		return nil, fmt.Errorf("table: rename: no column %q", old)
	}
	if _, clash := t.index[new]; clash && new != old {
		return nil, fmt.Errorf("table: rename: column %q already exists", new)
	}
	cols := append([]string(nil), t.cols...)
	cols[i] = new
	out := New(cols...)
	out.rows = t.rows
	return out, nil
}

// Distinct returns a new table holding the distinct combinations of the named
// columns, in first-occurrence order.
func (t *Table) Distinct(cols ...string) (*Table, error) {
	proj, err := t.Project(cols...)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(proj.rows))
	out := New(cols...)
	for _, row := range proj.rows {
		k := rowKey(row)
		if seen[k] {
			continue
		}
		seen[k] = true
		out.rows = append(out.rows, row)
	}
	return out, nil
}
