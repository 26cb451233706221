// Package datasource defines how the pipeline obtains the three raw survey
// tables. A Source yields a Dataset of packed lines; where the lines come
// from (local files, an embedded fixture) is the source implementation's
// concern.
package datasource

import "context"

// Dataset holds the three raw tables as they arrive from the supplier: each
// is a sequence of packed lines, one comma-joined record per line, header
// already removed.
type Dataset struct {
	Observations []string
	Management   []string
	Species      []string
}

// Source loads a Dataset. Load is the only blocking operation in the
// pipeline and honors ctx cancellation.
type Source interface {
	Load(ctx context.Context) (Dataset, error)
}

// Static is an in-memory Source, used by tests and by callers that already
// hold the raw lines.
type Static struct {
	Data Dataset
}

// Load returns the held dataset.
func (s Static) Load(ctx context.Context) (Dataset, error) {
	select {
	case <-ctx.Done():
		return Dataset{}, ctx.Err()
	default:
	}
	return s.Data, nil
}
