package browsertest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func visible(n *html.Node) bool {
	if n.Data == "input" {
		if t, _ := attr(n, "type"); strings.EqualFold(t, "hidden") {
			return false
		}
	}
	for c := n; c != nil; c = c.Parent {
		if c.Type != html.ElementNode {
			continue
		}
		if _, ok := attr(c, "hidden"); ok {
			return false
		}
		style, _ := attr(c, "style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

// innerText is the whitespace-collapsed text content of n.
func innerText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
			b.WriteByte(' ')
		case c.Type == html.ElementNode && (c.Data == "script" || c.Data == "style"):
			return
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func firstNode(doc *goquery.Document, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, root := range doc.Nodes {
		if walk(root) {
			break
		}
	}
	return found
}

func nodeByID(doc *goquery.Document, id string) *html.Node {
	return firstNode(doc, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
}

// textNode returns the innermost element whose text matches: exactly (after
// whitespace collapse) when exact is set, otherwise as a case-insensitive
// substring.
func textNode(doc *goquery.Document, text string, exact bool) *html.Node {
	want := strings.Join(strings.Fields(text), " ")
	matches := func(n *html.Node) bool {
		if n.Data == "html" || n.Data == "head" || n.Data == "body" {
			return false
		}
		got := innerText(n)
		if exact {
			return got == want
		}
		return strings.Contains(strings.ToLower(got), strings.ToLower(want))
	}
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && matches(n) {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if walk(c) {
					return true
				}
			}
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, root := range doc.Nodes {
		if walk(root) {
			break
		}
	}
	return found
}

// roleOf returns the explicit or implicit ARIA role of n.
func roleOf(n *html.Node) string {
	if r, ok := attr(n, "role"); ok && r != "" {
		return strings.ToLower(r)
	}
	switch n.Data {
	case "button":
		return "button"
	case "a":
		if _, ok := attr(n, "href"); ok {
			return "link"
		}
	case "textarea":
		return "textbox"
	case "input":
		t, _ := attr(n, "type")
		switch strings.ToLower(t) {
		case "", "text", "email", "tel", "url":
			return "textbox"
		case "search":
			return "searchbox"
		case "submit", "button", "reset":
			return "button"
		case "checkbox":
			return "checkbox"
		}
	}
	return ""
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1], true
		}
	}
	return s, false
}
