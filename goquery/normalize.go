package goquery

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText normalizes a raw HTML fragment: it strips markup, decodes
// HTML entities, turns non-breaking spaces into ordinary spaces, composes
// the text to NFC and trims surrounding whitespace.
func NormalizeText(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = textOnly(s)
	}
	return cleanText(s)
}

// cleanText normalizes text already decoded by the parser, such as the
// result of Selection.Text or an attribute value. Literal '<' and '&' in it
// are content and are kept.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(norm.NFC.String(s))
}

// textOnly keeps the text tokens of s. The tokenizer unescapes entities in
// text tokens.
func textOnly(s string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}
