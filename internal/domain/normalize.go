package domain

import (
	"strings"
	"unicode"
)

// NormalizeSearchText reduces raw user input to text-only characters:
// Unicode letters, numbers, and whitespace survive, every other rune
// (punctuation, symbols) becomes a single space. Whitespace is kept as-is,
// so term splitting downstream sees the original word boundaries.
func NormalizeSearchText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || unicode.Is(unicode.Zs, r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}
