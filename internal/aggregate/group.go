package aggregate

import (
	"fmt"

	"fieldsurvey/pkg/table"
)

// group accumulates one grouped-aggregation bucket. Groups appear in the
// output in first-encounter order, which keeps runs deterministic without a
// sort on the intermediate tables.
type group struct {
	keys    []any
	sum     float64
	n       int
	members map[string]bool // distinct values, used by distinctCountBy
}

// grouper walks a table once and buckets rows by the rendered values of the
// by columns.
type grouper struct {
	by     []string
	index  map[string]*group
	order  []*group
	member string // column whose distinct values are tracked, "" for none
}

func newGrouper(t *table.Table, by []string, member string) (*grouper, error) {
	for _, c := range by {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("group by: no column %q", c)
		}
	}
	if member != "" && !t.HasColumn(member) {
		return nil, fmt.Errorf("group by: no column %q", member)
	}
	return &grouper{by: by, index: make(map[string]*group), member: member}, nil
}

func (g *grouper) bucket(t *table.Table, row int) *group {
	keys := make([]any, len(g.by))
	k := ""
	for i, c := range g.by {
		keys[i] = t.Value(row, c)
		if i > 0 {
			k += "\x1f"
		}
		if keys[i] == nil {
			k += "\x00"
		} else {
			k += table.FormatValue(keys[i])
		}
	}
	b, ok := g.index[k]
	if !ok {
		b = &group{keys: keys}
		if g.member != "" {
			b.members = make(map[string]bool)
		}
		g.index[k] = b
		g.order = append(g.order, b)
	}
	return b
}

// sumBy groups t by the named columns and sums the numeric value column into
// an output column named out. The value column must hold float64 (or int)
// cells; anything else is a pipeline wiring error.
func sumBy(t *table.Table, by []string, value, out string) (*table.Table, error) {
	g, err := newGrouper(t, by, "")
	if err != nil {
		return nil, err
	}
	if !t.HasColumn(value) {
		return nil, fmt.Errorf("sum: no column %q", value)
	}
	for i := 0; i < t.Len(); i++ {
		f, err := numericCell(t.Value(i, value), value)
		if err != nil {
			return nil, err
		}
		b := g.bucket(t, i)
		b.sum += f
		b.n++
	}
	return g.emit(by, out, func(b *group) any { return b.sum })
}

// meanBy groups t by the named columns and takes the arithmetic mean of the
// value column. Only rows present in the input contribute; there is no
// implicit zero for missing combinations.
func meanBy(t *table.Table, by []string, value, out string) (*table.Table, error) {
	g, err := newGrouper(t, by, "")
	if err != nil {
		return nil, err
	}
	if !t.HasColumn(value) {
		return nil, fmt.Errorf("mean: no column %q", value)
	}
	for i := 0; i < t.Len(); i++ {
		f, err := numericCell(t.Value(i, value), value)
		if err != nil {
			return nil, err
		}
		b := g.bucket(t, i)
		b.sum += f
		b.n++
	}
	return g.emit(by, out, func(b *group) any { return b.sum / float64(b.n) })
}

// distinctCountBy groups t by the named columns and counts the distinct
// rendered values of the member column within each group.
func distinctCountBy(t *table.Table, by []string, member, out string) (*table.Table, error) {
	g, err := newGrouper(t, by, member)
	if err != nil {
		return nil, err
	}
	for i := 0; i < t.Len(); i++ {
		b := g.bucket(t, i)
		b.members[table.FormatValue(t.Value(i, member))] = true
	}
	return g.emit(by, out, func(b *group) any { return len(b.members) })
}

func (g *grouper) emit(by []string, out string, value func(*group) any) (*table.Table, error) {
	res := table.New(append(append([]string(nil), by...), out)...)
	for _, b := range g.order {
		vals := append(append([]any(nil), b.keys...), value(b))
		if err := res.AppendRow(vals...); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func numericCell(v any, col string) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	}
	return 0, fmt.Errorf("column %s: cell %v is not numeric; run the cast stage first", col, v)
}
