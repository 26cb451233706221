package packed

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var fieldCleaner = transform.Chain(
	norm.NFC,
	runes.Remove(runes.In(unicode.Cf)), // zero-width and other format runes
)

// NormalizeField canonicalizes one token: NFC composition, removal of format
// runes, non-breaking spaces to plain spaces, then edge-space trim. Join keys
// (species names, transect numbers) must match exactly, so both sides of
// every join pass through here.
func NormalizeField(s string) string {
	if cleaned, _, err := transform.String(fieldCleaner, s); err == nil {
		s = cleaned
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}
