// Package textclean normalizes comment text before it is written out.
package textclean

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML drops markup and decodes entities, keeping only text nodes.
// Surrounding whitespace is trimmed whether or not s held markup. Input that
// fails to parse is returned trimmed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
