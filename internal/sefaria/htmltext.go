package sefaria

import (
	stdhtml "html"
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes inline markup (<i>, <b>, <sup>, ...) from repository
// text, keeping only the text content. Repository payloads embed such tags
// freely; quote containment checks compare tag-free text on both sides.
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	tok := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}

// UnescapeEntities reverses HTML-entity escaping the model occasionally
// applies to quote text (&lt;b&gt; instead of <b>)
func UnescapeEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	return stdhtml.UnescapeString(s)
}
