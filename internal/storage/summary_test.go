package storage

import (
	"context"
	"testing"

	"fieldsurvey/pkg/table"
)

func TestSummaryRows(t *testing.T) {
	tb := table.New("transect_number", "BG_pc", "E_pc", "E_diversity", "NF_diversity", "management", "years_since")
	tb.MustAppendRow(1, 12.5, 15.0, 1, 1, "FIRE + WC", 2.5)
	tb.MustAppendRow(2, 20.0, nil, 2, nil, "WC", 1.0)

	rows, err := SummaryRows(tb)
	if err != nil {
		t.Fatalf("SummaryRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != 1 || rows[0][5] != "FIRE + WC" {
		t.Fatalf("row 0 = %v", rows[0])
	}
	if rows[1][2] != nil || rows[1][4] != nil {
		t.Fatalf("null cells not preserved: %v", rows[1])
	}
}

func TestSummaryRowsWidthMismatch(t *testing.T) {
	tb := table.New("transect_number", "BG_pc")
	tb.MustAppendRow(1, 12.5)
	if _, err := SummaryRows(tb); err == nil {
		t.Fatalf("SummaryRows on narrow table: want error")
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New(context.Background(), Config{Kind: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("New with unknown kind: want error")
	}
}
