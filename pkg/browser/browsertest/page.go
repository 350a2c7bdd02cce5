// Package browsertest provides an in-memory browser.Page backed by static
// HTML, for exercising resolution logic without a real browser.
//
// Visibility follows the markup: an element is hidden when it or an ancestor
// carries the hidden attribute, an inline display:none or visibility:hidden
// style, or when it is an input of type hidden. Actions never change the
// document; they are recorded and can be inspected through State.
package browsertest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/entrhq/voicenav/pkg/browser"
)

// State records what has been done to one element.
type State struct {
	Clicks   int
	Value    string
	Typed    []string
	Presses  []string
	Scrolled int
}

// Scroll is one window.scrollBy call.
type Scroll struct {
	DX, DY int
}

// Page is a fake browser.Page.
type Page struct {
	mu     sync.Mutex
	doc    *goquery.Document
	url    string
	frames []*Frame
	state  map[*html.Node]*State
	active *html.Node

	navigations []string
	scrolls     []Scroll

	// NavigateErr, when set, is returned by Navigate.
	NavigateErr error
	// ScreenshotErr, when set, is returned by Screenshot.
	ScreenshotErr error
}

var _ browser.Page = (*Page)(nil)

// New parses markup into a fake page.
func New(tb testing.TB, markup string) *Page {
	tb.Helper()
	doc, err := parse(markup)
	if err != nil {
		tb.Fatalf("browsertest: %v", err)
	}
	return &Page{
		doc:   doc,
		url:   "about:blank",
		state: make(map[*html.Node]*State),
	}
}

// AddFrame attaches a child frame with its own markup. The frame shares the
// page's action log.
func (p *Page) AddFrame(tb testing.TB, markup string) *Frame {
	tb.Helper()
	doc, err := parse(markup)
	if err != nil {
		tb.Fatalf("browsertest: %v", err)
	}
	f := &Frame{page: p, doc: doc}
	p.mu.Lock()
	p.frames = append(p.frames, f)
	p.mu.Unlock()
	return f
}

// Focus makes the first element matching selector the active element.
func (p *Page) Focus(selector string) {
	nodes, _ := p.match(p.doc, selector)
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(nodes) > 0 {
		p.active = nodes[0]
	}
}

// Find returns the element for the first node matching a CSS selector, or a
// missing element.
func (p *Page) Find(selector string) *Element {
	nodes, _ := p.match(p.doc, selector)
	if len(nodes) == 0 {
		return p.element(nil)
	}
	return p.element(nodes[0])
}

// State returns a copy of the recorded state of the first element matching
// selector.
func (p *Page) State(selector string) State {
	return p.stateOf(p.Find(selector))
}

// StateOf returns a copy of the recorded state of el, which must come from
// this page.
func (p *Page) StateOf(el browser.Element) State {
	fe, ok := el.(*Element)
	if !ok {
		return State{}
	}
	return p.stateOf(fe)
}

func (p *Page) stateOf(el *Element) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.state[el.node]
	if !ok || el.node == nil {
		return State{}
	}
	cp := *s
	cp.Typed = append([]string(nil), s.Typed...)
	cp.Presses = append([]string(nil), s.Presses...)
	return cp
}

// Navigations returns every URL passed to Navigate, in order.
func (p *Page) Navigations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigations...)
}

// Scrolls returns every ScrollBy call, in order.
func (p *Page) Scrolls() []Scroll {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Scroll(nil), p.scrolls...)
}

func (p *Page) Navigate(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.navigations = append(p.navigations, url)
	p.url = url
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) Content() (string, error) {
	return goquery.OuterHtml(p.doc.Selection)
}

func (p *Page) Screenshot() ([]byte, error) {
	if p.ScreenshotErr != nil {
		return nil, p.ScreenshotErr
	}
	return []byte("\x89PNG fake"), nil
}

func (p *Page) ByLabel(text string) browser.Element {
	want := fold(text)
	var found *html.Node
	p.doc.Find("label").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(fold(s.Text()), want) {
			return true
		}
		if id, ok := s.Attr("for"); ok {
			if target := nodeByID(p.doc, id); target != nil {
				found = target
				return false
			}
		}
		if nested := s.Find("input, textarea, select"); nested.Length() > 0 {
			found = nested.Nodes[0]
			return false
		}
		return true
	})
	if found == nil {
		found = firstNode(p.doc, func(n *html.Node) bool {
			label, ok := attr(n, "aria-label")
			return ok && strings.Contains(fold(label), want)
		})
	}
	return p.element(found)
}

func (p *Page) ByTestID(id string) browser.Element {
	return p.element(firstNode(p.doc, func(n *html.Node) bool {
		v, ok := attr(n, "data-testid")
		return ok && v == id
	}))
}

func (p *Page) ByRole(role, name string) browser.Element {
	want := fold(name)
	return p.element(firstNode(p.doc, func(n *html.Node) bool {
		if roleOf(n) != role {
			return false
		}
		return want == "" || strings.Contains(fold(p.accessibleName(n)), want)
	}))
}

func (p *Page) ByText(text string) browser.Element {
	return p.element(textNode(p.doc, text, true))
}

func (p *Page) Locate(selector string) browser.Element {
	if rest, ok := strings.CutPrefix(selector, "text="); ok {
		if unq, quoted := unquote(rest); quoted {
			return p.element(textNode(p.doc, unq, true))
		}
		return p.element(textNode(p.doc, rest, false))
	}
	nodes, err := p.match(p.doc, selector)
	if err != nil || len(nodes) == 0 {
		return p.element(nil)
	}
	return p.element(nodes[0])
}

func (p *Page) QueryAll(selector string) ([]browser.Element, error) {
	nodes, err := p.match(p.doc, selector)
	if err != nil {
		return nil, err
	}
	out := make([]browser.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, p.element(n))
	}
	return out, nil
}

func (p *Page) WaitFor(selector string, timeout time.Duration) (browser.Element, error) {
	return waitFor(p, p.doc, selector, timeout)
}

func (p *Page) Frames() []browser.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []browser.Frame{&Frame{page: p, doc: p.doc}}
	for _, f := range p.frames {
		out = append(out, f)
	}
	return out
}

func (p *Page) ActiveElement() (browser.Element, error) {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()
	if active == nil {
		active = firstNode(p.doc, func(n *html.Node) bool { return n.Data == "body" })
	}
	if active == nil {
		return nil, browser.ErrNotFound
	}
	return p.element(active), nil
}

func (p *Page) ScrollBy(dx, dy int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolls = append(p.scrolls, Scroll{DX: dx, DY: dy})
	return nil
}

// Frame is a fake child frame.
type Frame struct {
	page *Page
	doc  *goquery.Document
}

func (f *Frame) WaitFor(selector string, timeout time.Duration) (browser.Element, error) {
	return waitFor(f.page, f.doc, selector, timeout)
}

// Find returns the element for the first node in the frame matching selector.
func (f *Frame) Find(selector string) *Element {
	nodes, _ := f.page.match(f.doc, selector)
	if len(nodes) == 0 {
		return f.page.element(nil)
	}
	return f.page.element(nodes[0])
}

// waitFor returns immediately: static markup never changes, so a selector
// that is not visible now never will be.
func waitFor(p *Page, doc *goquery.Document, selector string, timeout time.Duration) (browser.Element, error) {
	nodes, err := p.match(doc, selector)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if visible(n) {
			return p.element(n), nil
		}
	}
	return nil, fmt.Errorf("timeout %s exceeded waiting for %q: %w", timeout, selector, browser.ErrNotFound)
}

func (p *Page) match(doc *goquery.Document, selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return doc.FindMatcher(sel).Nodes, nil
}

func (p *Page) element(n *html.Node) *Element {
	return &Element{page: p, node: n}
}

func (p *Page) record(n *html.Node, fn func(*State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.state[n]
	if !ok {
		s = &State{}
		p.state[n] = s
	}
	fn(s)
}

func (p *Page) accessibleName(n *html.Node) string {
	if v, ok := attr(n, "aria-label"); ok && v != "" {
		return v
	}
	if id, ok := attr(n, "id"); ok && id != "" {
		label := p.doc.Find("label").FilterFunction(func(_ int, s *goquery.Selection) bool {
			f, _ := s.Attr("for")
			return f == id
		})
		if label.Length() > 0 {
			return strings.TrimSpace(label.First().Text())
		}
	}
	if n.Data == "input" {
		for _, key := range []string{"value", "placeholder", "title"} {
			if v, ok := attr(n, key); ok && v != "" {
				return v
			}
		}
		return ""
	}
	if text := innerText(n); text != "" {
		return text
	}
	v, _ := attr(n, "title")
	return v
}

func parse(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return doc, nil
}

var errMissing = fmt.Errorf("locator resolved to no element: %w", browser.ErrNotFound)

// IsMissing reports whether err came from acting on an element that does not
// exist.
func IsMissing(err error) bool {
	return errors.Is(err, browser.ErrNotFound)
}
