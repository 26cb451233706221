// Package aggregate computes the per-transect summary table from the cleaned
// analysis table.
//
// Two independent grouped passes feed the final assembly:
//
//   - Pass A sums percent cover within each (transect, quadrat, type) group,
//     then takes the arithmetic mean of those per-quadrat totals within each
//     (transect, type) group, and pivots the type values wide, keeping bare
//     ground and exotic cover as BG_pc and E_pc. Summing within quadrat
//     first keeps a quadrat with several same-type observations from being
//     counted more than once; the outer mean runs over the quadrats that
//     actually recorded the type, so an absent quadrat does not contribute a
//     zero.
//   - Pass B restricts to exotic (E) and native-forb (NF) rows, counts the
//     distinct species names within each (transect, type) group, and pivots
//     those counts wide as E_diversity and NF_diversity.
//
// The assembled table joins both passes with the distinct transect-level
// {management, years_since} attributes and is sorted by transect number. The
// attributes must be constant within a transect; a deviation fails the run
// with an InvariantViolationError instead of fanning out the join.
package aggregate

import (
	"fmt"

	"fieldsurvey/internal/relate"
	"fieldsurvey/internal/schema"
	"fieldsurvey/pkg/table"
)

// Summary column names introduced by this stage.
const (
	ColBGCover     = "BG_pc"
	ColECover      = "E_pc"
	ColEDiversity  = "E_diversity"
	ColNFDiversity = "NF_diversity"
)

// Internal value columns of the intermediate long tables.
const (
	colQuadratCover = "quadrat_cover"
	colMeanCover    = "mean_cover"
	colDiversity    = "diversity"
)

// InvariantViolationError reports a transect whose site-level attributes are
// not constant across its rows. Distinct would then yield more than one row
// per transect and the final join would multiply rows, so the assembly
// refuses to proceed.
type InvariantViolationError struct {
	Transect any
	Column   string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("transect %s: %s varies across rows, expected one value per transect",
		table.FormatValue(e.Transect), e.Column)
}

// Summarise runs both aggregation passes over the cleaned analysis table and
// assembles the summary table, one row per transect, ordered by ascending
// transect number.
func Summarise(t *table.Table) (*table.Table, error) {
	cover, err := coverMeans(t)
	if err != nil {
		return nil, fmt.Errorf("aggregate: cover means: %w", err)
	}
	div, err := diversityCounts(t)
	if err != nil {
		return nil, fmt.Errorf("aggregate: diversity counts: %w", err)
	}
	attrs, err := transectAttributes(t)
	if err != nil {
		return nil, err
	}

	out, err := relate.LeftJoin(cover, div, schema.ColTransect)
	if err != nil {
		return nil, fmt.Errorf("aggregate: join diversity: %w", err)
	}
	out, err = relate.LeftJoin(out, attrs, schema.ColTransect)
	if err != nil {
		return nil, fmt.Errorf("aggregate: join attributes: %w", err)
	}
	return out.SortBy(schema.ColTransect)
}

// coverMeans is Pass A: per-quadrat cover totals, per-transect means, pivoted
// wide with only the BG and E columns kept. A species absent from the lookup
// table carries a nil type after the merge; such rows cannot contribute to any
// named cover column and are excluded before grouping.
func coverMeans(t *table.Table) (*table.Table, error) {
	typed := t.Filter(func(r table.Row) bool {
		return r.Value(schema.ColType) != nil
	})
	perQuadrat, err := sumBy(typed,
		[]string{schema.ColTransect, schema.ColQuadrat, schema.ColType},
		schema.ColPercentCover, colQuadratCover)
	if err != nil {
		return nil, err
	}
	perTransect, err := meanBy(perQuadrat,
		[]string{schema.ColTransect, schema.ColType},
		colQuadratCover, colMeanCover)
	if err != nil {
		return nil, err
	}
	wide, err := relate.Pivot(perTransect, []string{schema.ColTransect}, schema.ColType, colMeanCover)
	if err != nil {
		return nil, err
	}
	return keepRenamed(wide, schema.ColTransect, [][2]string{
		{"BG", ColBGCover},
		{"E", ColECover},
	})
}

// diversityCounts is Pass B: distinct species per (transect, type) for the
// exotic and native-forb types, pivoted wide.
func diversityCounts(t *table.Table) (*table.Table, error) {
	sub := t.Filter(func(r table.Row) bool {
		ty := r.String(schema.ColType)
		return ty == "E" || ty == "NF"
	})
	counts, err := distinctCountBy(sub,
		[]string{schema.ColTransect, schema.ColType},
		schema.ColSpecies, colDiversity)
	if err != nil {
		return nil, err
	}
	wide, err := relate.Pivot(counts, []string{schema.ColTransect}, schema.ColType, colDiversity)
	if err != nil {
		return nil, err
	}
	return keepRenamed(wide, schema.ColTransect, [][2]string{
		{"E", ColEDiversity},
		{"NF", ColNFDiversity},
	})
}

// transectAttributes projects the transect-level explanatory variables and
// verifies they are constant within each transect.
func transectAttributes(t *table.Table) (*table.Table, error) {
	attrs, err := t.Distinct(schema.ColTransect, schema.ColManagement, schema.ColYearsSince)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]int, attrs.Len())
	for i := 0; i < attrs.Len(); i++ {
		k := table.FormatValue(attrs.Value(i, schema.ColTransect))
		if _, dup := seen[k]; dup {
			// Identify which attribute deviates for the error message.
			j := seen[k]
			col := schema.ColManagement
			if table.FormatValue(attrs.Value(i, schema.ColManagement)) ==
				table.FormatValue(attrs.Value(j, schema.ColManagement)) {
				col = schema.ColYearsSince
			}
			return nil, &InvariantViolationError{
				Transect: attrs.Value(i, schema.ColTransect),
				Column:   col,
			}
		}
		seen[k] = i
	}
	return attrs, nil
}

// keepRenamed projects the pivoted table down to the id column plus the
// wanted pivot columns under their summary names. A pivot column absent from
// the input (no observations of that type anywhere) becomes a column of
// nulls so the summary schema is stable.
func keepRenamed(t *table.Table, id string, renames [][2]string) (*table.Table, error) {
	out := t
	var err error
	for _, rn := range renames {
		if !out.HasColumn(rn[0]) {
			out, err = withNullColumn(out, rn[1])
		} else {
			out, err = out.Rename(rn[0], rn[1])
		}
		if err != nil {
			return nil, err
		}
	}
	keep := make([]string, 0, len(renames)+1)
	keep = append(keep, id)
	for _, rn := range renames {
		keep = append(keep, rn[1])
	}
	return out.Project(keep...)
}

func withNullColumn(t *table.Table, name string) (*table.Table, error) {
	out := table.New(append(t.Columns(), name)...)
	for i := 0; i < t.Len(); i++ {
		vals := make([]any, 0, out.NumCols())
		for _, c := range t.Columns() {
			vals = append(vals, t.Value(i, c))
		}
		vals = append(vals, nil)
		if err := out.AppendRow(vals...); err != nil {
			return nil, err
		}
	}
	return out, nil
}
