package search

import "strings"

// parseSearchTerms splits normalized search text into fuzzy match terms.
// Each term is later matched independently with substring containment, ANDed.
//
// Rules, per token:
//   - a token fully wrapped in double quotes keeps its interior verbatim
//     (only the outer quote characters are stripped), so `"exact phrase"`
//     survives as one term with spaces intact;
//   - any other token is trimmed of quote characters and spaces on both ends;
//   - tokens that end up empty are dropped;
//   - single Latin letters and single dashes are dropped as noise.
//
// Order is preserved and duplicates are allowed.
func parseSearchTerms(text string) []string {
	terms := []string{}

	for _, raw := range tokenize(text) {
		var term string
		if isQuoted(raw) {
			term = strings.Trim(raw, `"'`)
		} else {
			term = strings.Trim(raw, `"' `)
		}

		if term == "" || isNoise(term) {
			continue
		}

		terms = append(terms, term)
	}

	return terms
}

// tokenize splits on whitespace, except that a double-quoted span counts as a
// single token so exact-match phrases keep their internal spaces.
func tokenize(text string) []string {
	var tokens []string

	i := 0
	for i < len(text) {
		if isSep(text[i]) {
			i++
			continue
		}

		if text[i] == '"' {
			if j := strings.IndexByte(text[i+1:], '"'); j >= 0 {
				tokens = append(tokens, text[i:i+j+2])
				i += j + 2
				continue
			}
		}

		j := i
		for j < len(text) && !isSep(text[j]) {
			j++
		}
		tokens = append(tokens, text[i:j])
		i = j
	}

	return tokens
}

func isSep(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isQuoted reports whether the token is an exact-match escape: a double quote
// on both ends with at least one character between.
func isQuoted(token string) bool {
	return len(token) >= 3 && token[0] == '"' && token[len(token)-1] == '"'
}

// isNoise drops stray single letters and dashes, which carry no search signal.
func isNoise(term string) bool {
	if len(term) != 1 {
		return false
	}
	c := term[0]
	return c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
