package strings

import (
	"strings"
)

// DefaultSnippetLen is the length response bodies are cut to in error
// messages and logs.
const DefaultSnippetLen = 120

// minSnippetLen leaves room for one character plus "...".
const minSnippetLen = 4

// Snippet flattens s onto one line, collapsing runs of whitespace, and cuts
// it to at most maxLen runes including a trailing "...".
func Snippet(s string, maxLen int) string {
	if maxLen < minSnippetLen {
		maxLen = minSnippetLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
