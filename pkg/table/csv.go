package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the table to w as RFC 4180 CSV with a header row. Cell
// values are rendered with FormatValue, so a nil cell becomes an empty field.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.cols); err != nil {
		return fmt.Errorf("table: write header: %w", err)
	}
	rec := make([]string, len(t.cols))
	for i, row := range t.rows {
		for j, v := range row {
			rec[j] = FormatValue(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("table: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
