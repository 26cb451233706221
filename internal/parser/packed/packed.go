// Package packed implements the splitter for the raw survey tables. Each raw
// table arrives as lines of one packed text column whose value is a fixed
// number of delimiter-joined fields; Split turns those lines into a table
// with one named column per field.
//
// Splitting is strict. The survey data is hand-curated, so a line whose token
// count does not match the declared field list indicates upstream corruption
// and fails the whole run with a MalformedRowError rather than dropping the
// row.
package packed

import (
	"fmt"
	"strings"

	"fieldsurvey/pkg/table"
)

// Options configures a Parser. Fields is required; the rest default.
type Options struct {
	// Delimiter separates fields within a packed value. When empty, "," is
	// used.
	Delimiter string

	// Fields is the ordered list of column names the packed value splits
	// into. The token count of every line must equal len(Fields).
	Fields []string

	// Normalize applies Unicode cleanup (NFC, format-rune removal, NBSP to
	// space, edge-space trim) to every token. Field observation sheets are
	// transcribed by hand and occasionally carry pasted non-breaking spaces
	// or combining forms that would break exact-match joins.
	Normalize bool
}

// Parser splits packed lines according to Options. A Parser is safe to reuse
// across inputs.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) (*Parser, error) {
	if len(opt.Fields) == 0 {
		return nil, fmt.Errorf("packed: at least one field required")
	}
	if opt.Delimiter == "" {
		opt.Delimiter = ","
	}
	return &Parser{opt: opt}, nil
}

// MalformedRowError reports a packed line whose token count does not match
// the declared field list. Line is 1-based within the input.
type MalformedRowError struct {
	Line int
	Raw  string
	Got  int
	Want int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("packed: line %d: split %q into %d tokens, want %d", e.Line, e.Raw, e.Got, e.Want)
}

// Split splits each packed line into the configured fields and returns the
// resulting table. Lines map to rows in order; the output row count equals
// len(lines).
func (p *Parser) Split(lines []string) (*table.Table, error) {
	out := table.New(p.opt.Fields...)
	want := len(p.opt.Fields)
	for i, line := range lines {
		toks := strings.Split(line, p.opt.Delimiter)
		if len(toks) != want {
			return nil, &MalformedRowError{Line: i + 1, Raw: line, Got: len(toks), Want: want}
		}
		vals := make([]any, want)
		for j, tok := range toks {
			if p.opt.Normalize {
				tok = NormalizeField(tok)
			}
			vals[j] = tok
		}
		if err := out.AppendRow(vals...); err != nil {
			return nil, err
		}
	}
	return out, nil
}
