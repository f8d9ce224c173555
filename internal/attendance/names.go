package attendance

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "João" -> "Joao").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeWorkerName normalizes a display name for comparison (lowercase,
// no diacritics, spaces for dashes).
func NormalizeWorkerName(name string) string {
	name = RemoveDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// MatchesName reports whether a worker's display name matches the query
// after normalization. The query matches on full name or substring.
func MatchesName(displayName, query string) bool {
	n := NormalizeWorkerName(displayName)
	q := NormalizeWorkerName(query)
	if q == "" {
		return false
	}
	return strings.Contains(n, q)
}
