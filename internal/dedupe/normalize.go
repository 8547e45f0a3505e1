// Package dedupe implements the reference comparison engine: canonical key
// generation, exact set-based matching, a fuzzy residual pass for
// near-duplicate titles, and advisory confidence scoring.
package dedupe

import (
	"strings"
	"unicode"
)

// articlePrefixes are the leading English articles stripped during title
// normalization so that "The Impact of AI" and "Impact of AI" key identically.
var articlePrefixes = []string{"the ", "a ", "an "}

// NormalizeTitle canonicalizes a title for keying and similarity comparison:
// lowercase, trim, strip one leading article, then drop every character that
// is not a letter or digit. Idempotent; empty input yields "".
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))

	for _, prefix := range articlePrefixes {
		if strings.HasPrefix(t, prefix) {
			t = t[len(prefix):]
			break
		}
	}

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
