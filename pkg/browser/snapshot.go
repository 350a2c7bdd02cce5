package browser

import (
	"strings"

	"golang.org/x/net/html"
)

// dropped elements carry no targeting information for a selector prompt.
var dropped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"template": true,
	"link":     true,
	"meta":     true,
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// kept attributes are the ones a selector can be written against.
var keptAttrs = map[string]bool{
	"id":          true,
	"class":       true,
	"name":        true,
	"type":        true,
	"role":        true,
	"href":        true,
	"title":       true,
	"placeholder": true,
	"value":       true,
	"alt":         true,
	"for":         true,
	"aria-label":  true,
}

// Snapshot returns a compact rendering of raw page markup no longer than max
// runes. Scripts, styles and comments are removed and only targeting
// attributes survive. When the markup cannot be parsed the raw text is
// truncated instead. A non-positive max disables truncation.
func Snapshot(raw string, max int) string {
	cleaned, err := cleanMarkup(raw)
	if err != nil || strings.TrimSpace(cleaned) == "" {
		cleaned = raw
	}
	return Truncate(cleaned, max)
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func cleanMarkup(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeNode(&b, doc)
	return b.String(), nil
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			b.WriteString(html.EscapeString(text))
		}
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if dropped[tag] {
			return
		}
		b.WriteByte('<')
		b.WriteString(tag)
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if keptAttrs[key] || strings.HasPrefix(key, "data-test") {
				b.WriteByte(' ')
				b.WriteString(key)
				b.WriteString(`="`)
				b.WriteString(html.EscapeString(a.Val))
				b.WriteByte('"')
			}
		}
		b.WriteByte('>')
		if voidTags[tag] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(tag)
		b.WriteByte('>')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c)
	}
}
