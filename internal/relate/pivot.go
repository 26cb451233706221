package relate

import (
	"fmt"

	"fieldsurvey/pkg/table"
)

// Pivot spreads a long table wide: one output row per distinct combination of
// the id columns, one output column per distinct value found in the key
// column, each cell holding that group's value-column entry. Id rows and key
// columns appear in first-occurrence order; a (id, key) cell with no source
// row is nil.
//
// A duplicate (id, key) pair means the input was not aggregated to that grain
// and is rejected rather than picking a winner. A nil or empty key value is
// rejected too: it cannot name an output column.
func Pivot(t *table.Table, id []string, key, value string) (*table.Table, error) {
	for _, c := range append(append([]string(nil), id...), key, value) {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("pivot: no column %q", c)
		}
	}

	type cellAddr struct {
		row int
		col string
	}

	// First pass: discover id groups and key values in encounter order.
	groupIdx := make(map[string]int)
	var groupVals [][]any
	keyIdx := make(map[string]bool)
	var keyOrder []string
	cells := make(map[cellAddr]any)
	filled := make(map[cellAddr]bool)

	for i := 0; i < t.Len(); i++ {
		idVals := make([]any, len(id))
		for j, c := range id {
			idVals[j] = t.Value(i, c)
		}
		gk := groupKeyOf(idVals)
		g, ok := groupIdx[gk]
		if !ok {
			g = len(groupVals)
			groupIdx[gk] = g
			groupVals = append(groupVals, idVals)
		}

		kv := table.FormatValue(t.Value(i, key))
		if kv == "" {
			return nil, fmt.Errorf("pivot: row %d has no %s value to spread into a column", i+1, key)
		}
		if !keyIdx[kv] {
			keyIdx[kv] = true
			keyOrder = append(keyOrder, kv)
		}

		addr := cellAddr{row: g, col: kv}
		if filled[addr] {
			return nil, fmt.Errorf("pivot: duplicate entry for %v / %s", idVals, kv)
		}
		filled[addr] = true
		cells[addr] = t.Value(i, value)
	}

	out := table.New(append(append([]string(nil), id...), keyOrder...)...)
	for g, idVals := range groupVals {
		vals := append([]any(nil), idVals...)
		for _, kv := range keyOrder {
			vals = append(vals, cells[cellAddr{row: g, col: kv}])
		}
		if err := out.AppendRow(vals...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func groupKeyOf(vals []any) string {
	s := ""
	for i, v := range vals {
		if i > 0 {
			s += "\x1f"
		}
		if v == nil {
			s += "\x00"
			continue
		}
		s += table.FormatValue(v)
	}
	return s
}
