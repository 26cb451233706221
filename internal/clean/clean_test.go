package clean

import (
	"errors"
	"testing"
	"time"

	"fieldsurvey/internal/schema"
	"fieldsurvey/pkg/table"
)

// mergedCols is the analysis-table column order produced by the two joins.
var mergedCols = []string{
	schema.ColTransect, schema.ColQuadrat, schema.ColSpecies, schema.ColPercentCover,
	schema.ColOrigin, schema.ColGrowthForm, schema.ColType,
	schema.ColSize, schema.ColDate, schema.ColOrientation, schema.ColAssistant,
	schema.ColManagement, schema.ColBurnSeason, schema.ColYearsSince,
	schema.ColBiomassReduct, schema.ColManagementUn,
}

func mergedRow(overrides map[string]any) []any {
	base := map[string]any{
		schema.ColTransect:      "1",
		schema.ColQuadrat:       "1",
		schema.ColSpecies:       "vulpia bromoides",
		schema.ColPercentCover:  "15.0",
		schema.ColOrigin:        "exotic",
		schema.ColGrowthForm:    "NA",
		schema.ColType:          "E",
		schema.ColSize:          "225",
		schema.ColDate:          "2017-03-06",
		schema.ColOrientation:   "N",
		schema.ColAssistant:     "VI",
		schema.ColManagement:    "FIRE + WC",
		schema.ColBurnSeason:    "Autumn",
		schema.ColYearsSince:    "2.5",
		schema.ColBiomassReduct: "2014",
		schema.ColManagementUn:  "U1",
	}
	for k, v := range overrides {
		base[k] = v
	}
	row := make([]any, len(mergedCols))
	for i, c := range mergedCols {
		row[i] = base[c]
	}
	return row
}

func mergedTable(t *testing.T, rows ...[]any) *table.Table {
	t.Helper()
	tb := table.New(mergedCols...)
	for _, r := range rows {
		tb.MustAppendRow(r...)
	}
	return tb
}

/*
TestApplyScenario pins the merge+clean scenario from the survey data: the
vulpia bromoides row keeps the joined type and gets a float percent cover; the
BG row gets its type backfilled from the species code regardless of the
(absent) lookup entry.
*/
func TestApplyScenario(t *testing.T) {
	in := mergedTable(t,
		mergedRow(nil),
		mergedRow(map[string]any{
			schema.ColSpecies:      "BG",
			schema.ColPercentCover: "14.5",
			schema.ColOrigin:       nil,
			schema.ColGrowthForm:   nil,
			schema.ColType:         nil,
		}),
	)

	out, err := Default().Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("rows = %d, want 2", out.Len())
	}

	if got := out.Value(0, schema.ColType); got != "E" {
		t.Fatalf("vulpia type = %v, want E", got)
	}
	if got := out.Value(0, schema.ColPercentCover); got != 15.0 {
		t.Fatalf("vulpia percent_cover = %v (%T), want float 15.0", got, got)
	}
	if got := out.Value(1, schema.ColType); got != "BG" {
		t.Fatalf("BG type = %v, want backfilled BG", got)
	}

	// Columns dropped and types cast.
	if out.HasColumn(schema.ColGrowthForm) || out.HasColumn(schema.ColOrigin) {
		t.Fatalf("growth_form/origin not dropped: %v", out.Columns())
	}
	if _, ok := out.Value(0, schema.ColTransect).(int); !ok {
		t.Fatalf("transect_number not int: %T", out.Value(0, schema.ColTransect))
	}
	if _, ok := out.Value(0, schema.ColQuadrat).(int); !ok {
		t.Fatalf("quadrat not int: %T", out.Value(0, schema.ColQuadrat))
	}
	if _, ok := out.Value(0, schema.ColYearsSince).(float64); !ok {
		t.Fatalf("years_since not float: %T", out.Value(0, schema.ColYearsSince))
	}
	wantDate := time.Date(2017, 3, 6, 0, 0, 0, 0, time.UTC)
	if got := out.Value(0, schema.ColDate); got != wantDate {
		t.Fatalf("date = %v, want %v", got, wantDate)
	}
}

/*
TestBackfillPrecedence verifies that for every abiotic ground-cover code the
final type equals the species code, even when the species join produced a
conflicting value.
*/
func TestBackfillPrecedence(t *testing.T) {
	for _, code := range []string{"BG", "L", "LM", "R"} {
		in := mergedTable(t, mergedRow(map[string]any{
			schema.ColSpecies: code,
			schema.ColType:    "stale",
		}))
		out, err := Default().Apply(in)
		if err != nil {
			t.Fatalf("%s: Apply: %v", code, err)
		}
		if got := out.Value(0, schema.ColType); got != code {
			t.Fatalf("%s: type = %v, want %s", code, got, code)
		}
	}
}

func TestExcludedManagementFiltered(t *testing.T) {
	in := mergedTable(t,
		mergedRow(nil),
		mergedRow(map[string]any{schema.ColManagement: "Slashing_WC", schema.ColTransect: "9"}),
	)
	out, err := Default().Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("rows = %d, want 1 (Slashing_WC removed)", out.Len())
	}
	if got := out.Value(0, schema.ColTransect); got != 1 {
		t.Fatalf("surviving transect = %v, want 1", got)
	}
}

func TestCastErrorPropagates(t *testing.T) {
	cases := []struct {
		name   string
		col    string
		value  string
		column string
	}{
		{"bad float", schema.ColPercentCover, "a lot", schema.ColPercentCover},
		{"bad int", schema.ColQuadrat, "one", schema.ColQuadrat},
		{"bad date", schema.ColDate, "06.03.2017", schema.ColDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := mergedTable(t, mergedRow(map[string]any{tc.col: tc.value}))
			_, err := Default().Apply(in)
			var ce *schema.CastError
			if !errors.As(err, &ce) {
				t.Fatalf("Apply = %v, want CastError", err)
			}
			if ce.Column != tc.column || ce.Value != tc.value {
				t.Fatalf("CastError = %+v", ce)
			}
		})
	}
}

// Null cells from an unmatched management join must pass the cast unchanged.
func TestCastSkipsNulls(t *testing.T) {
	in := mergedTable(t, mergedRow(map[string]any{
		schema.ColSize:       nil,
		schema.ColDate:       nil,
		schema.ColYearsSince: nil,
		schema.ColManagement: nil,
	}))
	out, err := Default().Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Value(0, schema.ColSize) != nil || out.Value(0, schema.ColDate) != nil {
		t.Fatalf("null cells changed by cast")
	}
}
