// Package clean implements the cleaning stage applied to the merged analysis
// table: row filtering for the excluded treatment, column drops, the
// ground-cover type backfill, and the single typed-cast pass.
//
// The four operations run in a fixed order (filter, drop, backfill, cast)
// and each produces a new table. Casting is strict: a non-null value that
// does not parse under its declared kind aborts the run with a
// schema.CastError. Null cells produced by an unmatched left join pass
// through the cast unchanged; they are legitimate, not corrupt.
package clean

import (
	"fmt"
	"strconv"
	"time"

	"fieldsurvey/internal/schema"
	"fieldsurvey/pkg/table"
)

// Cleaner holds the literal constants the cleaning stage applies. Every field
// is a fixed value of this dataset, not a predicate language; Default returns
// the configuration the survey uses.
type Cleaner struct {
	// ExcludeManagement removes rows whose management column equals this
	// value before anything else runs.
	ExcludeManagement string

	// DropColumns are removed from the table after filtering.
	DropColumns []string

	// BackfillCodes are the abiotic ground-cover species codes. The species
	// lookup holds no entry for them, so the species join leaves their type
	// null; for any row whose species equals one of these codes the type
	// column is forced to the code itself.
	BackfillCodes []string

	// Casts is the column-to-kind map applied in the final pass.
	Casts schema.CastSpec
}

// Default returns the cleaner configured for the transect survey dataset.
func Default() Cleaner {
	return Cleaner{
		ExcludeManagement: "Slashing_WC",
		DropColumns:       []string{schema.ColGrowthForm, schema.ColOrigin},
		BackfillCodes:     []string{"BG", "L", "LM", "R"},
		Casts:             schema.AnalysisCasts,
	}
}

// Apply runs the four cleaning operations in order and returns the cleaned,
// typed analysis table.
func (c Cleaner) Apply(t *table.Table) (*table.Table, error) {
	out := t.Filter(func(r table.Row) bool {
		return r.String(schema.ColManagement) != c.ExcludeManagement
	})

	var err error
	if len(c.DropColumns) > 0 {
		out, err = out.Drop(c.DropColumns...)
		if err != nil {
			return nil, err
		}
	}

	out, err = c.backfillType(out)
	if err != nil {
		return nil, err
	}

	return c.cast(out)
}

// backfillType forces the type column to the species code for the abiotic
// ground-cover rows, overriding whatever the species join produced.
func (c Cleaner) backfillType(t *table.Table) (*table.Table, error) {
	if len(c.BackfillCodes) == 0 {
		return t, nil
	}
	if !t.HasColumn(schema.ColSpecies) || !t.HasColumn(schema.ColType) {
		return nil, fmt.Errorf("clean: backfill requires %s and %s columns", schema.ColSpecies, schema.ColType)
	}
	codes := make(map[string]bool, len(c.BackfillCodes))
	for _, code := range c.BackfillCodes {
		codes[code] = true
	}

	cols := t.Columns()
	typeIdx := t.ColIndex(schema.ColType)
	out := table.New(cols...)
	for i := 0; i < t.Len(); i++ {
		vals := make([]any, len(cols))
		for j, col := range cols {
			vals[j] = t.Value(i, col)
		}
		if sp := t.RowAt(i).String(schema.ColSpecies); codes[sp] {
			vals[typeIdx] = sp
		}
		if err := out.AppendRow(vals...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// cast applies the declared kind to every configured column. Columns absent
// from the cast map stay text.
func (c Cleaner) cast(t *table.Table) (*table.Table, error) {
	cols := t.Columns()
	out := table.New(cols...)
	for i := 0; i < t.Len(); i++ {
		vals := make([]any, len(cols))
		for j, col := range cols {
			v := t.Value(i, col)
			kind, declared := c.Casts[col]
			if !declared || v == nil {
				vals[j] = v
				continue
			}
			s, isText := v.(string)
			if !isText {
				// Already cast; re-running the cleaner is a no-op.
				vals[j] = v
				continue
			}
			cv, err := castValue(col, s, kind)
			if err != nil {
				return nil, err
			}
			vals[j] = cv
		}
		if err := out.AppendRow(vals...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func castValue(col, s string, kind schema.Kind) (any, error) {
	switch kind {
	case schema.KindText:
		return s, nil
	case schema.KindInteger:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, &schema.CastError{Column: col, Value: s, Kind: kind, Err: err}
		}
		return n, nil
	case schema.KindReal:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &schema.CastError{Column: col, Value: s, Kind: kind, Err: err}
		}
		return f, nil
	case schema.KindDate:
		d, err := time.Parse(schema.DateLayout, s)
		if err != nil {
			return nil, &schema.CastError{Column: col, Value: s, Kind: kind, Err: err}
		}
		return d, nil
	case schema.KindCategory:
		if s == "" {
			return nil, &schema.CastError{Column: col, Value: s, Kind: kind}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("clean: unknown kind %q for column %s", kind, col)
	}
}
