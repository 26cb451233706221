// Package file implements a local filesystem-backed datasource.Source that
// reads the three packed survey tables from disk.
package file

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"fieldsurvey/internal/datasource"
)

// Paths names the three input files.
type Paths struct {
	Observations string
	Management   string
	Species      string
}

// Source reads the packed tables from local files. The three files are
// independent, so they load concurrently; everything downstream of the loader
// is synchronous.
type Source struct {
	paths Paths

	// HasHeader skips the first line of each file. The supplier ships the
	// packed tables with a single header line naming the packed column.
	HasHeader bool
}

// New returns a Source bound to the given paths.
func New(paths Paths, hasHeader bool) (*Source, error) {
	for _, p := range []struct{ name, path string }{
		{"observations", paths.Observations},
		{"management", paths.Management},
		{"species", paths.Species},
	} {
		if p.path == "" {
			return nil, fmt.Errorf("file source: %s path must not be empty", p.name)
		}
	}
	return &Source{paths: paths, HasHeader: hasHeader}, nil
}

// Load reads all three files and returns their packed lines. Blank lines are
// skipped (a trailing newline is not a row); any read error aborts the load.
func (s *Source) Load(ctx context.Context) (datasource.Dataset, error) {
	var ds datasource.Dataset
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := s.readLines(ctx, s.paths.Observations)
		ds.Observations = lines
		return err
	})
	g.Go(func() error {
		lines, err := s.readLines(ctx, s.paths.Management)
		ds.Management = lines
		return err
	})
	g.Go(func() error {
		lines, err := s.readLines(ctx, s.paths.Species)
		ds.Species = lines
		return err
	})
	if err := g.Wait(); err != nil {
		return datasource.Dataset{}, err
	}
	return ds, nil
}

func (s *Source) readLines(ctx context.Context, path string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if s.HasHeader {
				continue
			}
		}
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
