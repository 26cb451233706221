// Package relate implements the two relational operations the pipeline
// needs: a left join with a validated-unique right key, and a long-to-wide
// pivot. Both operate on table.Table values and return new tables.
package relate

import (
	"fmt"

	"fieldsurvey/pkg/table"
)

// AmbiguousJoinKeyError reports a join whose right side holds the same key
// value more than once. Duplicate right keys would silently multiply left
// rows, so the join refuses to proceed.
type AmbiguousJoinKeyError struct {
	Key   string
	Value any
}

func (e *AmbiguousJoinKeyError) Error() string {
	return fmt.Sprintf("join on %s: key %v occurs more than once on the right side", e.Key, table.FormatValue(e.Value))
}

// LeftJoin joins every row of left against at most one row of right, matching
// on equal values of the key column. Output columns are left's columns
// followed by right's non-key columns; a left row without a match carries nil
// for every right column. Left row order is preserved and the output row
// count always equals left.Len().
//
// The key must be unique within right; a duplicate yields an
// AmbiguousJoinKeyError before any row is emitted.
func LeftJoin(left, right *table.Table, key string) (*table.Table, error) {
	if !left.HasColumn(key) {
		return nil, fmt.Errorf("join: left table has no column %q", key)
	}
	if !right.HasColumn(key) {
		return nil, fmt.Errorf("join: right table has no column %q", key)
	}

	rightCols := make([]string, 0, right.NumCols()-1)
	for _, c := range right.Columns() {
		if c == key {
			continue
		}
		if left.HasColumn(c) {
			return nil, fmt.Errorf("join: column %q exists on both sides", c)
		}
		rightCols = append(rightCols, c)
	}

	// Index the right side, rejecting duplicate keys up front.
	index := make(map[any]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		k := right.Value(i, key)
		if _, dup := index[k]; dup {
			return nil, &AmbiguousJoinKeyError{Key: key, Value: k}
		}
		index[k] = i
	}

	out := table.New(append(left.Columns(), rightCols...)...)
	for i := 0; i < left.Len(); i++ {
		vals := make([]any, 0, out.NumCols())
		for _, c := range left.Columns() {
			vals = append(vals, left.Value(i, c))
		}
		if j, ok := index[left.Value(i, key)]; ok {
			for _, c := range rightCols {
				vals = append(vals, right.Value(j, c))
			}
		} else {
			for range rightCols {
				vals = append(vals, nil)
			}
		}
		if err := out.AppendRow(vals...); err != nil {
			return nil, err
		}
	}
	return out, nil
}
