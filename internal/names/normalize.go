// Package names normalizes display names so profile lookups tolerate
// formatting differences between slugs and what the user typed.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Normalize prepares a name for comparison (lowercase, no diacritics,
// dashes and repeated whitespace collapsed to single spaces), so
// "jan-novak" matches "Jan Novák".
func Normalize(name string) string {
	name = RemoveDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}

// Equal reports whether two display names refer to the same person after
// normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
