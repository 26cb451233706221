// Package config defines the canonical, JSON-serializable configuration
// model for a survey-pipeline run.
//
// Example (trimmed):
//
//	{
//	  "job": "bush_survey_2017",
//	  "inputs": {
//	    "observations": "data/observations.csv",
//	    "management":   "data/management.csv",
//	    "species":      "data/species.csv",
//	    "has_header":   true
//	  },
//	  "output":  { "csv_path": "-" },
//	  "storage": { "kind": "sqlite", "dsn": "survey.db" }
//	}
package config

import (
	"encoding/json"
	"io"
)

// Run describes one full pipeline run. It is the top-level object decoded
// from a config file.
type Run struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Inputs locates the three raw packed tables.
	Inputs Inputs `json:"inputs"`

	// Delimiter separates fields inside a packed value. Defaults to ",".
	Delimiter string `json:"delimiter,omitempty"`

	// Output controls CSV emission of the summary table.
	Output Output `json:"output"`

	// Storage optionally configures a database sink for the summary table.
	// An empty Kind disables storage.
	Storage Storage `json:"storage"`
}

// Inputs locates the three raw tables on disk.
type Inputs struct {
	// Observations is the path of the packed observation table.
	Observations string `json:"observations"`

	// Management is the path of the packed site-management table.
	Management string `json:"management"`

	// Species is the path of the packed species-lookup table.
	Species string `json:"species"`

	// HasHeader skips the first line of each file (the packed column's
	// header).
	HasHeader bool `json:"has_header"`

	// RawTokens disables Unicode token normalization in the split stage;
	// tokens are then kept byte-for-byte as loaded.
	RawTokens bool `json:"raw_tokens,omitempty"`
}

// Output controls emission of the summary table as CSV.
type Output struct {
	// CSVPath is the destination file; "-" means stdout, empty disables
	// CSV output.
	CSVPath string `json:"csv_path"`
}

// Storage selects the sink used to persist the summary table.
type Storage struct {
	// Kind selects the backend: "sqlite", "postgres", or "" for none.
	Kind string `json:"kind"`

	// DSN is the backend connection string.
	DSN string `json:"dsn"`

	// Table overrides the destination table name. Empty uses the default.
	Table string `json:"table,omitempty"`
}

// Decode reads a Run from JSON and applies defaults.
func Decode(r io.Reader) (Run, error) {
	var run Run
	if err := json.NewDecoder(r).Decode(&run); err != nil {
		return Run{}, err
	}
	if run.Delimiter == "" {
		run.Delimiter = ","
	}
	return run, nil
}

// Marshal renders a Run back to indented JSON, e.g. for writing a template
// config.
func Marshal(run Run) ([]byte, error) {
	return json.MarshalIndent(run, "", "  ")
}
