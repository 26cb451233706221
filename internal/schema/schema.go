// Package schema declares the fixed column layout of the three raw survey
// tables and the target type of every column in the merged analysis table.
//
// All columns load as text; nothing downstream coerces ad hoc. Instead the
// clean stage applies the one cast map declared here (Kind per column) in a
// single controlled pass, and any value that does not parse under its
// declared kind fails the run with a CastError naming the column and value.
package schema

import (
	"fmt"

	"fieldsurvey/pkg/table"
)

// Kind is the semantic type a text column is cast to.
type Kind string

const (
	KindText     Kind = "text"     // left as string
	KindInteger  Kind = "integer"  // int
	KindReal     Kind = "real"     // float64
	KindDate     Kind = "date"     // time.Time, layout DateLayout
	KindCategory Kind = "category" // string drawn from a small fixed set
)

// DateLayout is the calendar-date format used by the management table. It is
// the same layout FormatValue renders dates with, so a cast-then-render round
// trip reproduces the input text.
const DateLayout = table.DateLayout

// Column names shared across the pipeline. The observation, management and
// species tables are keyed by these; the merged analysis table carries the
// union minus the duplicated join keys.
const (
	ColTransect     = "transect_number"
	ColQuadrat      = "quadrat"
	ColSpecies      = "species"
	ColPercentCover = "percent_cover"

	ColSize          = "size"
	ColDate          = "date"
	ColOrientation   = "orientation"
	ColAssistant     = "assistant"
	ColManagement    = "management"
	ColBurnSeason    = "burn_season"
	ColYearsSince    = "years_since"
	ColBiomassReduct = "biomass_reduction_year"
	ColManagementUn  = "management_unit"

	ColOrigin     = "origin"
	ColGrowthForm = "growth_form"
	ColType       = "type"
)

// ObservationFields is the field order of the packed observation table.
var ObservationFields = []string{ColTransect, ColQuadrat, ColSpecies, ColPercentCover}

// ManagementFields is the field order of the packed site-management table.
var ManagementFields = []string{
	ColTransect, ColSize, ColDate, ColOrientation, ColAssistant,
	ColManagement, ColBurnSeason, ColYearsSince, ColBiomassReduct, ColManagementUn,
}

// SpeciesFields is the field order of the packed species-lookup table.
var SpeciesFields = []string{ColSpecies, ColOrigin, ColGrowthForm, ColType}

// CastSpec maps column names to their target kinds. Columns absent from the
// map stay text.
type CastSpec map[string]Kind

// AnalysisCasts is the cast map for the cleaned analysis table.
var AnalysisCasts = CastSpec{
	ColPercentCover: KindReal,
	ColSize:         KindReal,
	ColDate:         KindDate,
	ColManagement:   KindCategory,
	ColYearsSince:   KindReal,
	ColTransect:     KindInteger,
	ColQuadrat:      KindInteger,
}

// CastError reports a value that failed to parse under its column's declared
// kind. The run aborts; values are never coerced to a default.
type CastError struct {
	Column string
	Value  string
	Kind   Kind
	Err    error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast %s: %q is not a valid %s", e.Column, e.Value, e.Kind)
}

func (e *CastError) Unwrap() error { return e.Err }
