// This file adds a lightweight linter/validator for Run values. It performs
// static checks over a decoded Run and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Run.
//
// Path is a dotted path into the config (e.g. "inputs.observations",
// "storage.kind"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Run. It does not mutate the run;
// callers decide whether warnings are fatal.
func Validate(run Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(run.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	for _, in := range []struct{ path, value string }{
		{"inputs.observations", run.Inputs.Observations},
		{"inputs.management", run.Inputs.Management},
		{"inputs.species", run.Inputs.Species},
	} {
		if strings.TrimSpace(in.value) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     in.path,
				Message:  "input path must not be empty",
			})
		}
	}

	if len(run.Delimiter) > 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "delimiter",
			Message:  fmt.Sprintf("delimiter %q must be a single character", run.Delimiter),
		})
	}

	issues = append(issues, validateStorage(run.Storage)...)

	if run.Output.CSVPath == "" && run.Storage.Kind == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output",
			Message:  "neither csv output nor storage configured; the run discards its result",
		})
	}

	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return issues // storage disabled
	}

	known := map[string]struct{}{
		"sqlite":   {},
		"postgres": {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (want sqlite or postgres)", s.Kind),
		})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "storage requires a non-empty dsn",
		})
	}

	return issues
}
