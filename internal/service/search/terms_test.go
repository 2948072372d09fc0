package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSearchTerms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "only spaces", input: "   ", want: []string{}},
		{name: "plain words", input: "photo pack", want: []string{"photo", "pack"}},
		{name: "single letter dropped", input: "a b-c", want: []string{"b-c"}},
		{name: "single uppercase letter dropped", input: "X ray", want: []string{"ray"}},
		{name: "single dash dropped", input: "- bundle", want: []string{"bundle"}},
		{name: "single digit kept", input: "7 seas", want: []string{"7", "seas"}},
		{
			name:  "quoted phrase keeps internal space, stray letter dropped",
			input: `"a b" c`,
			want:  []string{"a b"},
		},
		{
			name:  "quoted phrase keeps leading and trailing spaces",
			input: `" deluxe "`,
			want:  []string{" deluxe "},
		},
		{
			name:  "unquoted token trimmed of quotes",
			input: `theme"`,
			want:  []string{"theme"},
		},
		{
			name:  "unbalanced quote treated as ordinary token",
			input: `"half open`,
			want:  []string{"half", "open"},
		},
		{name: "duplicates preserved in order", input: "kit kit", want: []string{"kit", "kit"}},
		{name: "unicode term kept", input: "café", want: []string{"café"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSearchTerms(tt.input))
		})
	}
}

func TestParseSearchTermsIsPure(t *testing.T) {
	input := `"boxed set" poster b`
	first := parseSearchTerms(input)
	second := parseSearchTerms(input)
	assert.Equal(t, first, second)
}
