package textfilter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize folds s into the canonical form used for keyword matching:
// NFKC composition, half/full-width folding, case folding and trimmed edges.
// Full-width "ＡＢＣ" and "abc" normalise to the same string.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = width.Fold.String(s)
	s = cases.Fold().String(s)
	return strings.TrimSpace(s)
}

// Clean prepares player-entered text for display: control characters are
// dropped and runs of whitespace collapse to a single space.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
			// dropped
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// TitleCase renders an upper-case identifier such as "GENESIS" as "Genesis".
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
