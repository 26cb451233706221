package table

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tb := New("transect_number", "species", "percent_cover")
	tb.MustAppendRow("1", "vulpia bromoides", "15.0")
	tb.MustAppendRow("1", "BG", "14.5")
	tb.MustAppendRow("2", "themeda triandra", "30.0")
	return tb
}

func TestAppendRowWidth(t *testing.T) {
	tb := New("a", "b")
	if err := tb.AppendRow("x"); err == nil {
		t.Fatalf("AppendRow with 1 value on 2 columns: want error")
	}
	if err := tb.AppendRow("x", "y", "z"); err == nil {
		t.Fatalf("AppendRow with 3 values on 2 columns: want error")
	}
	if err := tb.AppendRow("x", "y"); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if tb.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tb.Len())
	}
}

func TestNewPanicsOnDuplicateColumn(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("New with duplicate column: want panic")
		}
	}()
	New("a", "a")
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	tb := sample(t)
	got := tb.Filter(func(r Row) bool { return r.String("species") != "BG" })
	if got.Len() != 2 {
		t.Fatalf("filtered Len = %d, want 2", got.Len())
	}
	if tb.Len() != 3 {
		t.Fatalf("input mutated: Len = %d, want 3", tb.Len())
	}
	if got.Value(1, "species") != "themeda triandra" {
		t.Fatalf("row order not preserved: %v", got.Value(1, "species"))
	}
}

func TestProjectAndDrop(t *testing.T) {
	tb := sample(t)

	proj, err := tb.Project("species", "transect_number")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if want := []string{"species", "transect_number"}; !reflect.DeepEqual(proj.Columns(), want) {
		t.Fatalf("Project columns = %v, want %v", proj.Columns(), want)
	}

	dropped, err := tb.Drop("percent_cover")
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if want := []string{"transect_number", "species"}; !reflect.DeepEqual(dropped.Columns(), want) {
		t.Fatalf("Drop columns = %v, want %v", dropped.Columns(), want)
	}

	if _, err := tb.Project("nope"); err == nil {
		t.Fatalf("Project on unknown column: want error")
	}
	if _, err := tb.Drop("nope"); err == nil {
		t.Fatalf("Drop on unknown column: want error")
	}
}

func TestRename(t *testing.T) {
	tb := sample(t)
	got, err := tb.Rename("percent_cover", "pc")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if !got.HasColumn("pc") || got.HasColumn("percent_cover") {
		t.Fatalf("Rename columns = %v", got.Columns())
	}
	if got.Value(0, "pc") != "15.0" {
		t.Fatalf("Rename lost values: %v", got.Value(0, "pc"))
	}
	if _, err := tb.Rename("percent_cover", "species"); err == nil {
		t.Fatalf("Rename onto existing column: want error")
	}
}

func TestDistinct(t *testing.T) {
	tb := New("transect_number", "management")
	tb.MustAppendRow("1", "FIRE + WC")
	tb.MustAppendRow("1", "FIRE + WC")
	tb.MustAppendRow("2", "WC")
	tb.MustAppendRow("1", "FIRE + WC")

	got, err := tb.Distinct("transect_number", "management")
	if err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("Distinct Len = %d, want 2", got.Len())
	}
	if got.Value(0, "transect_number") != "1" || got.Value(1, "transect_number") != "2" {
		t.Fatalf("first-occurrence order not preserved")
	}
}

func TestDistinctNilVsEmpty(t *testing.T) {
	tb := New("k")
	tb.MustAppendRow(nil)
	tb.MustAppendRow("")
	got, err := tb.Distinct("k")
	if err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("nil and empty string collapsed: Len = %d, want 2", got.Len())
	}
}

func TestSortBy(t *testing.T) {
	tb := New("transect_number", "tag")
	tb.MustAppendRow(10, "c")
	tb.MustAppendRow(2, "a")
	tb.MustAppendRow(nil, "n")
	tb.MustAppendRow(2, "b")

	got, err := tb.SortBy("transect_number")
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	var tags []string
	for i := 0; i < got.Len(); i++ {
		tags = append(tags, got.Value(i, "tag").(string))
	}
	// nil first, then 2 (stable: a before b), then 10.
	if want := []string{"n", "a", "b", "c"}; !reflect.DeepEqual(tags, want) {
		t.Fatalf("sort order = %v, want %v", tags, want)
	}
}

func TestSortByNumericNotLexical(t *testing.T) {
	tb := New("n")
	tb.MustAppendRow(10)
	tb.MustAppendRow(9)
	got, err := tb.SortBy("n")
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	if got.Value(0, "n") != 9 {
		t.Fatalf("ints sorted lexically: first = %v, want 9", got.Value(0, "n"))
	}
}

func TestFingerprint(t *testing.T) {
	a := sample(t)
	b := sample(t)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("identical tables yield different fingerprints")
	}

	c := sample(t)
	c.MustAppendRow("3", "x", "1.0")
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("extra row not reflected in fingerprint")
	}

	// nil and "" must fingerprint differently.
	d := New("k")
	d.MustAppendRow(nil)
	e := New("k")
	e.MustAppendRow("")
	if d.Fingerprint() == e.Fingerprint() {
		t.Fatalf("nil and empty string fingerprints collide")
	}
}

func TestWriteCSV(t *testing.T) {
	tb := New("transect_number", "BG_pc", "date")
	tb.MustAppendRow(1, 14.5, time.Date(2017, 3, 6, 0, 0, 0, 0, time.UTC))
	tb.MustAppendRow(2, nil, nil)

	var buf bytes.Buffer
	if err := tb.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := strings.Join([]string{
		"transect_number,BG_pc,date",
		"1,14.5,2017-03-06",
		"2,,",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Fatalf("csv output:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{42, "42"},
		{15.0, "15"},
		{14.5, "14.5"},
		{time.Date(2017, 3, 6, 0, 0, 0, 0, time.UTC), "2017-03-06"},
		{true, "true"},
	}
	for _, c := range cases {
		if got := FormatValue(c.in); got != c.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}
