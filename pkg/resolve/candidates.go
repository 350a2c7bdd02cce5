// Package resolve turns spoken references such as "the second one" or
// "submit odrer" into one of the clickable candidates collected from a
// single scan of the page.
package resolve

import (
	"strings"

	"github.com/entrhq/voicenav/pkg/browser"
	"github.com/entrhq/voicenav/pkg/heuristics"
)

// Candidate is a visible interactive element with its display label and its
// position within one scan.
type Candidate struct {
	Index   int
	Label   string
	Element browser.Element
}

// labelAttrs are consulted in order when an element has no visible text.
var labelAttrs = []string{"aria-label", "title", "name", "id"}

// Scan collects the visible clickable elements of page. Selectors are
// queried in heuristics order and candidates are deduplicated by exact
// label, keeping the first. Index is the position after deduplication.
func Scan(page browser.Page) []Candidate {
	var out []Candidate
	seen := make(map[string]bool)
	for _, sel := range heuristics.Clickable() {
		els, err := page.QueryAll(sel)
		if err != nil {
			continue
		}
		for _, el := range els {
			if !browser.Visible(el) {
				continue
			}
			label := Label(el)
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			out = append(out, Candidate{Index: len(out), Label: label, Element: el})
		}
	}
	return out
}

// Label returns the trimmed inner text of el, falling back to its
// descriptive attributes.
func Label(el browser.Element) string {
	if text, err := el.InnerText(); err == nil {
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	for _, name := range labelAttrs {
		if v, err := el.Attribute(name); err == nil {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// Labels returns the labels of cands in order.
func Labels(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Label
	}
	return out
}
