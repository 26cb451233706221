package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date rendering used whenever a time.Time cell is
// turned back into text (CSV output, keys, fingerprints).
const DateLayout = "2006-01-02"

// FormatValue renders a cell value as text. Floats use the shortest exact
// representation, dates use DateLayout, nil renders as the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return x.Format(DateLayout)
	case bool:
		return strconv.FormatBool(x)
	default:
		// No other cell types are produced by the pipeline.
		return fmt.Sprintf("%v", v)
	}
}

// rowKey builds a composite key for a row slice. Unit separator avoids
// collisions between ("a","bc") and ("ab","c"); a type marker distinguishes
// nil from the empty string.
func rowKey(vals []any) string {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if v == nil {
			b.WriteByte(0x00)
			continue
		}
		b.WriteString(FormatValue(v))
	}
	return b.String()
}

// compareValues orders cell values for SortBy: nil first, then numerically
// for int/float64 (mixed int/float compare on the float value), then dates,
// then lexically for strings. Values of different non-nil kinds compare by a
// fixed kind rank so the order is total and deterministic.
func compareValues(a, b any) int {
	ar, br := kindRank(a), kindRank(b)
	if ar != br {
		return ar - br
	}
	switch av := a.(type) {
	case nil:
		return 0
	case int:
		return compareFloat(float64(av), asFloat(b))
	case float64:
		return compareFloat(av, asFloat(b))
	case time.Time:
		bv := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	case string:
		return strings.Compare(av, b.(string))
	}
	return 0
}

func kindRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int, float64:
		return 1
	case time.Time:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
