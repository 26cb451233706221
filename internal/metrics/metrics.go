// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the survey pipeline.
//
// The package is intentionally minimal:
//
//   - It exposes a narrow interface (Backend) for counters and durations.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metric calls are always safe even when no real
//     backend is configured.
//   - Concrete metric systems live in subpackages (e.g. prompush for a
//     Prometheus Pushgateway); the rest of the codebase depends only on this
//     interface.
//
// The pipeline records one step metric per stage (load, split, merge, clean,
// aggregate, store) and row counters per table handed between stages.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)      {}
func (nopBackend) ObserveDuration(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                              { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures one pipeline stage: latency plus a success/failure
// counter, labeled by job and stage name.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter("survey_step_total", 1, lbls)
	backend.ObserveDuration("survey_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows counts the rows a stage emitted. Typical kinds:
//
//   - "observations", "management", "species" (loaded raw lines)
//   - "merged"   (analysis rows after the joins)
//   - "cleaned"  (rows surviving the excluded-treatment filter)
//   - "summary"  (final per-transect rows)
//   - "stored"   (rows written to a sink)
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("survey_rows_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}
