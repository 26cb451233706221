package table

import (
	"fmt"
	"sort"
)

// SortBy returns a new table with rows ordered ascending by the named
// columns, comparing later columns only on ties. The sort is stable, so rows
// equal under all sort columns keep their input order.
func (t *Table) SortBy(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("table: sort: no column %q", c)
		}
		idx[i] = j
	}
	out := New(t.cols...)
	out.rows = make([][]any, len(t.rows))
	for i := range t.rows {
		out.rows[i] = append([]any(nil), t.rows[i]...)
	}
	sort.SliceStable(out.rows, func(a, b int) bool {
		for _, j := range idx {
			if c := compareValues(out.rows[a][j], out.rows[b][j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out, nil
}
