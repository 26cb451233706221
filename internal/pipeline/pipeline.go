// Package pipeline wires the five survey stages end-to-end: load the three
// packed tables, split them into named fields, merge them into one analysis
// table, clean and type it, and aggregate it into the per-transect summary.
//
// The pipeline is a straight line: each stage consumes the previous stage's
// table and any failure aborts the run. The dataset is small, static and
// hand-prepared, so there is no retry, no partial output and no skipping of
// bad rows; masking a data error would silently corrupt a scientific
// summary.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"fieldsurvey/internal/aggregate"
	"fieldsurvey/internal/clean"
	"fieldsurvey/internal/datasource"
	"fieldsurvey/internal/metrics"
	"fieldsurvey/internal/parser/packed"
	"fieldsurvey/internal/relate"
	"fieldsurvey/internal/schema"
	"fieldsurvey/pkg/table"
)

// Stats reports row counts per stage for the end-of-run summary line.
type Stats struct {
	Observations int // raw observation lines loaded
	Management   int // raw management lines loaded
	Species      int // raw species lines loaded
	Merged       int // analysis rows after both joins
	Cleaned      int // rows surviving the excluded-treatment filter
	Summary      int // final per-transect rows
}

// Options configures a Pipeline. Source is required; the rest default.
type Options struct {
	// Job labels metrics and log lines. Defaults to "fieldsurvey".
	Job string

	// Source yields the three raw tables.
	Source datasource.Source

	// Delimiter separates fields inside a packed value. Defaults to ",".
	Delimiter string

	// RawTokens disables Unicode token normalization in the split stage,
	// keeping every token byte-for-byte as loaded. The default cleans up
	// hand-transcribed artifacts (non-breaking spaces, format runes, edge
	// spaces) before the joins.
	RawTokens bool
}

// Pipeline holds a run's fixed inputs. The zero value is not usable;
// construct with New.
type Pipeline struct {
	job       string
	source    datasource.Source
	delimiter string
	normalize bool
	cleaner   clean.Cleaner
}

// New builds a Pipeline from the provided Options.
func New(opt Options) (*Pipeline, error) {
	if opt.Source == nil {
		return nil, fmt.Errorf("pipeline: source must not be nil")
	}
	if opt.Job == "" {
		opt.Job = "fieldsurvey"
	}
	if opt.Delimiter == "" {
		opt.Delimiter = ","
	}
	return &Pipeline{
		job:       opt.Job,
		source:    opt.Source,
		delimiter: opt.Delimiter,
		normalize: !opt.RawTokens,
		cleaner:   clean.Default(),
	}, nil
}

// Run executes the full pipeline and returns the summary table, one row per
// transect, ordered by ascending transect number.
func (p *Pipeline) Run(ctx context.Context) (*table.Table, Stats, error) {
	var stats Stats

	ds, err := step(ctx, p.job, "load", func() (datasource.Dataset, error) {
		return p.source.Load(ctx)
	})
	if err != nil {
		return nil, stats, fmt.Errorf("load: %w", err)
	}
	stats.Observations = len(ds.Observations)
	stats.Management = len(ds.Management)
	stats.Species = len(ds.Species)
	metrics.RecordRows(p.job, "observations", int64(stats.Observations))
	metrics.RecordRows(p.job, "management", int64(stats.Management))
	metrics.RecordRows(p.job, "species", int64(stats.Species))

	type split struct{ obs, mgmt, sp *table.Table }
	tables, err := step(ctx, p.job, "split", func() (split, error) {
		obs, err := p.split(ds.Observations, schema.ObservationFields)
		if err != nil {
			return split{}, fmt.Errorf("observations: %w", err)
		}
		mgmt, err := p.split(ds.Management, schema.ManagementFields)
		if err != nil {
			return split{}, fmt.Errorf("management: %w", err)
		}
		sp, err := p.split(ds.Species, schema.SpeciesFields)
		if err != nil {
			return split{}, fmt.Errorf("species: %w", err)
		}
		return split{obs: obs, mgmt: mgmt, sp: sp}, nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("split: %w", err)
	}

	merged, err := step(ctx, p.job, "merge", func() (*table.Table, error) {
		t, err := relate.LeftJoin(tables.obs, tables.sp, schema.ColSpecies)
		if err != nil {
			return nil, err
		}
		return relate.LeftJoin(t, tables.mgmt, schema.ColTransect)
	})
	if err != nil {
		return nil, stats, fmt.Errorf("merge: %w", err)
	}
	stats.Merged = merged.Len()
	metrics.RecordRows(p.job, "merged", int64(stats.Merged))

	cleaned, err := step(ctx, p.job, "clean", func() (*table.Table, error) {
		return p.cleaner.Apply(merged)
	})
	if err != nil {
		return nil, stats, fmt.Errorf("clean: %w", err)
	}
	stats.Cleaned = cleaned.Len()
	metrics.RecordRows(p.job, "cleaned", int64(stats.Cleaned))

	summary, err := step(ctx, p.job, "aggregate", func() (*table.Table, error) {
		return aggregate.Summarise(cleaned)
	})
	if err != nil {
		return nil, stats, err
	}
	stats.Summary = summary.Len()
	metrics.RecordRows(p.job, "summary", int64(stats.Summary))

	log.Printf("run %s: observations=%d merged=%d cleaned=%d transects=%d",
		p.job, stats.Observations, stats.Merged, stats.Cleaned, stats.Summary)
	return summary, stats, nil
}

func (p *Pipeline) split(lines []string, fields []string) (*table.Table, error) {
	parser, err := packed.NewParser(packed.Options{
		Delimiter: p.delimiter,
		Fields:    fields,
		Normalize: p.normalize,
	})
	if err != nil {
		return nil, err
	}
	return parser.Split(lines)
}

// step runs one pipeline stage under the shared metrics/cancellation wrapper.
func step[T any](ctx context.Context, job, name string, fn func() (T, error)) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	default:
	}
	start := time.Now()
	out, err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return out, err
}
