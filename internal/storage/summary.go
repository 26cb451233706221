package storage

import (
	"fmt"

	"fieldsurvey/pkg/table"
)

// SummaryColumns is the destination column order for the summary table. It
// mirrors the pipeline's output columns positionally; only the casing
// differs, since the analytical names (BG_pc, E_pc, ...) fold to lower-case
// identifiers in SQL.
var SummaryColumns = []string{
	"transect_number",
	"bg_pc",
	"e_pc",
	"e_diversity",
	"nf_diversity",
	"management",
	"years_since",
}

// SummaryRows converts the summary table into positional rows aligned to
// SummaryColumns. The table must have exactly len(SummaryColumns) columns in
// the pipeline's output order.
func SummaryRows(t *table.Table) ([][]any, error) {
	cols := t.Columns()
	if len(cols) != len(SummaryColumns) {
		return nil, fmt.Errorf("storage: summary table has %d columns, want %d", len(cols), len(SummaryColumns))
	}
	rows := make([][]any, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = t.Value(i, c)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
