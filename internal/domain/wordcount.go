package domain

import (
	"html"
	"strings"
)

// PlainText returns the plain-text projection of serialized rich-text markup.
// Every tag is replaced with a single space so that words separated only by
// block boundaries ("…end</p><p>Start…") do not run together, then HTML
// entities are unescaped.
func PlainText(markup string) string {
	if markup == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(markup))

	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
			b.WriteByte(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	return html.UnescapeString(b.String())
}

// CountWords counts the words in rich-text content: take the plain-text
// projection, trim, split on runs of whitespace, drop empty tokens, count
// the remainder. The live editor count and the persisted count both go
// through here so the two can never disagree at save time.
func CountWords(markup string) int {
	return len(strings.Fields(strings.TrimSpace(PlainText(markup))))
}
