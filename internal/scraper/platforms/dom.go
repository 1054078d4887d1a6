// internal/scraper/platforms/dom.go
//
// Minimal DOM helpers over x/net/html for the adapters that parse listing
// pages directly.  Just enough selector power for class lookups; anything
// fancier belongs in a browser adapter.

package platforms

import (
	"context"
	"strings"

	"golang.org/x/net/html"
)

// getDOM fetches url and parses the response as HTML.
func getDOM(ctx context.Context, url string) (*html.Node, error) {
	body, err := get(ctx, url, "text/html")
	if err != nil {
		return nil, err
	}
	return html.Parse(strings.NewReader(string(body)))
}

// findAll walks the tree collecting elements with the given tag and class.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// firstText returns the trimmed text of the first descendant matching tag
// and class, or "".
func firstText(n *html.Node, tag, class string) string {
	matches := findAll(n, tag, class)
	if len(matches) == 0 {
		return ""
	}
	return text(matches[0])
}

// text flattens all text nodes under n.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// attr returns the named attribute or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if class == "" {
		return true
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
