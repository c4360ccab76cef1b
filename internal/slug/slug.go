// Package slug derives URL-safe identifiers from article titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes diacritics by decomposing to NFD, dropping combining
// marks, and recomposing.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts a title into a lowercase hyphen-separated slug. Accented
// letters are folded to their base form, every other non-alphanumeric run
// collapses into a single hyphen, and leading/trailing hyphens are trimmed.
//
// An empty result (a title with no usable characters) is returned as-is;
// callers treat it as a validation failure.
func Make(title string) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		// Fold failures leave the raw title; the cleanup below still yields
		// something usable for ASCII input.
		folded = title
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
