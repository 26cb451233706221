package table

import (
	"github.com/zeebo/xxh3"
)

// Fingerprint returns a 64-bit content hash over the column names and every
// cell in row order. Two tables with the same columns, the same rows in the
// same order, and cell-for-cell equal rendered values produce the same
// fingerprint; this is what the run-to-run determinism checks compare.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()
	for _, c := range t.cols {
		_, _ = h.WriteString(c)
		_, _ = h.Write([]byte{0x1f})
	}
	_, _ = h.Write([]byte{0x1e})
	for _, row := range t.rows {
		for _, v := range row {
			if v == nil {
				_, _ = h.Write([]byte{0x00})
			} else {
				_, _ = h.WriteString(FormatValue(v))
			}
			_, _ = h.Write([]byte{0x1f})
		}
		_, _ = h.Write([]byte{0x1e})
	}
	return h.Sum64()
}
