package crawler

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// linkAttributes maps element names to the attribute holding a link target.
// Only attributes that point at a fetchable resource are listed.
var linkAttributes = map[string]string{
	"a":      "href",
	"area":   "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"iframe": "src",
	"source": "src",
}

// ExtractLinks parses an HTML document and returns every literal link
// attribute value, in document order and without resolution.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//
// Duplicates are kept; the frontier deduplicates after resolution, which is
// where "same link" can be decided correctly.
func ExtractLinks(content io.Reader) ([]string, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if key, ok := linkAttributes[n.Data]; ok {
				if value, found := getAttr(n, key); found && isCandidateLink(value) {
					links = append(links, value)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return links, nil
}

// isCandidateLink reports whether value names something other than the
// page itself. Empty values and bare fragments always resolve back to the
// page they were found on. Every other value is kept, including
// mailto: and javascript: links, which the resolver reports as malformed.
func isCandidateLink(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed != "" && !strings.HasPrefix(trimmed, "#")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// isHTML reports whether a Content-Type header value denotes an HTML document.
// An empty content type is treated as HTML because servers omitting the
// header usually serve pages.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
