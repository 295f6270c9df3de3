package validate

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize reduces a string to a bare comparison token: NFD-normalizes,
// strips combining marks, drops every non-alphanumeric rune, and lowercases.
// Both sides of a fuzzy comparison must pass through this function so that
// "Form IC-702" matches a filename containing "FORMIC702".
func Normalize(s string) string {
	s = norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
