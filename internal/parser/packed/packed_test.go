package packed

import (
	"errors"
	"strings"
	"testing"
)

func TestSplitBasic(t *testing.T) {
	p, err := NewParser(Options{Fields: []string{"transect_number", "quadrat", "species", "percent_cover"}})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	got, err := p.Split([]string{
		"1,1,vulpia bromoides,15.0",
		"1,1,BG,14.5",
	})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if got.Len() != 2 || got.NumCols() != 4 {
		t.Fatalf("shape = (%d, %d), want (2, 4)", got.Len(), got.NumCols())
	}
	if got.Value(0, "species") != "vulpia bromoides" {
		t.Fatalf("species = %v", got.Value(0, "species"))
	}
	if got.Value(1, "percent_cover") != "14.5" {
		t.Fatalf("percent_cover = %v", got.Value(1, "percent_cover"))
	}
}

/*
TestSplitRoundTrip verifies that joining a split row's tokens back with the
original delimiter reproduces the original packed value, for every well-formed
line.
*/
func TestSplitRoundTrip(t *testing.T) {
	fields := []string{"species", "origin", "growth_form", "type"}
	lines := []string{
		"vulpia bromoides,exotic,NA,E",
		"themeda triandra,native,graminoid,NG",
		"wahlenbergia sp.,native,forb,NF",
	}
	p, err := NewParser(Options{Fields: fields})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	got, err := p.Split(lines)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	for i, line := range lines {
		toks := make([]string, len(fields))
		for j, f := range fields {
			toks[j] = got.Value(i, f).(string)
		}
		if joined := strings.Join(toks, ","); joined != line {
			t.Errorf("line %d: round trip %q, want %q", i+1, joined, line)
		}
	}
}

func TestSplitMalformedRow(t *testing.T) {
	p, err := NewParser(Options{Fields: []string{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	_, err = p.Split([]string{
		"1,2,3",
		"1,2",
	})
	var mre *MalformedRowError
	if !errors.As(err, &mre) {
		t.Fatalf("Split = %v, want MalformedRowError", err)
	}
	if mre.Line != 2 || mre.Got != 2 || mre.Want != 3 {
		t.Fatalf("error fields = %+v", mre)
	}
}

func TestSplitCustomDelimiter(t *testing.T) {
	p, err := NewParser(Options{Delimiter: ";", Fields: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	got, err := p.Split([]string{"x;y,z"})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if got.Value(0, "b") != "y,z" {
		t.Fatalf("b = %v, want \"y,z\"", got.Value(0, "b"))
	}
}

func TestSplitNormalize(t *testing.T) {
	p, err := NewParser(Options{Fields: []string{"species", "type"}, Normalize: true})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	got, err := p.Split([]string{" vulpia\u00a0bromoides ,E\u200b"})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if got.Value(0, "species") != "vulpia bromoides" {
		t.Fatalf("species = %q, want normalized", got.Value(0, "species"))
	}
	if got.Value(0, "type") != "E" {
		t.Fatalf("type = %q, zero-width space not removed", got.Value(0, "type"))
	}
}

func TestNormalizeFieldNFC(t *testing.T) {
	// e + combining acute must compose to the precomposed form.
	if got := NormalizeField("cafe\u0301"); got != "caf\u00e9" {
		t.Fatalf("NormalizeField = %q, want %q", got, "caf\u00e9")
	}
}

func TestNewParserRequiresFields(t *testing.T) {
	if _, err := NewParser(Options{}); err == nil {
		t.Fatalf("NewParser without fields: want error")
	}
}
