package openai

import (
	"strings"
	"unicode"
)

// scrubString strips control characters that tend to leak out of mail bodies
// (NUL bytes, bare carriage returns) and trims surrounding whitespace.
// Printable content, including punctuation, is left intact so entity spans
// still match the source text.
func scrubString(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
