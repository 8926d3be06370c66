package utils

import (
	"strings"
)

const luceneSpecial = `+-&|!(){}[]^"~*?:\/`

/*
EscapeLucene quotes the characters the full-text query parser treats as
syntax, so an organization name like "AT&T (Holdings)" is matched as text.
*/
func EscapeLucene(text string) string {
	builder := &strings.Builder{}

	for _, r := range strings.TrimSpace(text) {
		if strings.ContainsRune(luceneSpecial, r) {
			builder.WriteRune('\\')
		}

		builder.WriteRune(r)
	}

	return builder.String()
}

// Truncate shortens text to at most n runes, marking the cut with an ellipsis.
func Truncate(text string, n int) string {
	runes := []rune(text)

	if n <= 0 || len(runes) <= n {
		return text
	}

	return string(runes[:n]) + "…"
}
