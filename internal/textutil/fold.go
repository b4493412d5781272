// Package textutil holds the case and accent folding used for keyword matching.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s and strips combining marks, so "Salud Pública" matches
// "salud publica".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// ContainsAny reports whether folded text contains any of terms.
// Terms are folded before comparison and empty terms never match.
func ContainsAny(text string, terms []string) bool {
	_, ok := FirstMatch(text, terms)
	return ok
}

// FirstMatch returns the first term, in order, contained in text.
func FirstMatch(text string, terms []string) (string, bool) {
	for _, term := range terms {
		n := Fold(strings.TrimSpace(term))
		if n == "" {
			continue
		}
		if strings.Contains(text, n) {
			return term, true
		}
	}
	return "", false
}
