package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// playwrightPage adapts a playwright.Page to Page.
type playwrightPage struct {
	page playwright.Page
}

// NewPage wraps a Playwright page.
func NewPage(page playwright.Page) Page {
	return &playwrightPage{page: page}
}

func (p *playwrightPage) Navigate(url string) error {
	if _, err := p.page.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(false),
	})
}

func (p *playwrightPage) ByLabel(text string) Element {
	return &locatorElement{loc: p.page.GetByLabel(text).First()}
}

func (p *playwrightPage) ByTestID(id string) Element {
	return &locatorElement{loc: p.page.GetByTestId(id).First()}
}

func (p *playwrightPage) ByRole(role, name string) Element {
	opts := playwright.PageGetByRoleOptions{}
	if name != "" {
		opts.Name = name
	}
	return &locatorElement{loc: p.page.GetByRole(playwright.AriaRole(role), opts).First()}
}

func (p *playwrightPage) ByText(text string) Element {
	return &locatorElement{loc: p.page.Locator(fmt.Sprintf("text=%q", text)).First()}
}

func (p *playwrightPage) Locate(selector string) Element {
	return &locatorElement{loc: p.page.Locator(selector).First()}
}

func (p *playwrightPage) QueryAll(selector string) ([]Element, error) {
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	out := make([]Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, &handleElement{h: h})
	}
	return out, nil
}

func (p *playwrightPage) WaitFor(selector string, timeout time.Duration) (Element, error) {
	h, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(millis(timeout)),
		State:   playwright.WaitForSelectorStateVisible,
	})
	if err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}
	if h == nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, ErrNotFound)
	}
	return &handleElement{h: h}, nil
}

func (p *playwrightPage) Frames() []Frame {
	frames := p.page.Frames()
	out := make([]Frame, 0, len(frames))
	for _, f := range frames {
		out = append(out, &playwrightFrame{frame: f})
	}
	return out
}

func (p *playwrightPage) ActiveElement() (Element, error) {
	handle, err := p.page.EvaluateHandle("() => document.activeElement")
	if err != nil {
		return nil, fmt.Errorf("active element: %w", err)
	}
	el := handle.AsElement()
	if el == nil {
		return nil, fmt.Errorf("active element: %w", ErrNotFound)
	}
	return &handleElement{h: el}, nil
}

func (p *playwrightPage) ScrollBy(dx, dy int) error {
	_, err := p.page.Evaluate("([dx, dy]) => window.scrollBy(dx, dy)", []int{dx, dy})
	return err
}

type playwrightFrame struct {
	frame playwright.Frame
}

func (f *playwrightFrame) WaitFor(selector string, timeout time.Duration) (Element, error) {
	h, err := f.frame.WaitForSelector(selector, playwright.FrameWaitForSelectorOptions{
		Timeout: playwright.Float(millis(timeout)),
		State:   playwright.WaitForSelectorStateVisible,
	})
	if err != nil {
		return nil, fmt.Errorf("wait for %q in frame: %w", selector, err)
	}
	if h == nil {
		return nil, fmt.Errorf("wait for %q in frame: %w", selector, ErrNotFound)
	}
	return &handleElement{h: h}, nil
}

// locatorElement is a lazy element: it resolves against the live DOM on
// every call.
type locatorElement struct {
	loc playwright.Locator
}

func (e *locatorElement) IsVisible() (bool, error) { return e.loc.IsVisible() }
func (e *locatorElement) Click() error             { return e.loc.Click() }
func (e *locatorElement) Fill(value string) error  { return e.loc.Fill(value) }
func (e *locatorElement) Type(text string) error   { return e.loc.PressSequentially(text) }
func (e *locatorElement) Press(key string) error   { return e.loc.Press(key) }
func (e *locatorElement) ScrollIntoView() error    { return e.loc.ScrollIntoViewIfNeeded() }
func (e *locatorElement) InnerText() (string, error) {
	return e.loc.InnerText()
}

func (e *locatorElement) Attribute(name string) (string, error) {
	return e.loc.GetAttribute(name)
}

func (e *locatorElement) TagName() (string, error) {
	v, err := e.loc.Evaluate("el => el.tagName", nil)
	if err != nil {
		return "", err
	}
	return tagString(v), nil
}

// handleElement wraps an element handle returned by a query or wait.
type handleElement struct {
	h playwright.ElementHandle
}

func (e *handleElement) IsVisible() (bool, error) { return e.h.IsVisible() }
func (e *handleElement) Click() error             { return e.h.Click() }
func (e *handleElement) Fill(value string) error  { return e.h.Fill(value) }
func (e *handleElement) Type(text string) error   { return e.h.Type(text) }
func (e *handleElement) Press(key string) error   { return e.h.Press(key) }
func (e *handleElement) ScrollIntoView() error    { return e.h.ScrollIntoViewIfNeeded() }
func (e *handleElement) InnerText() (string, error) {
	return e.h.InnerText()
}

func (e *handleElement) Attribute(name string) (string, error) {
	return e.h.GetAttribute(name)
}

func (e *handleElement) TagName() (string, error) {
	v, err := e.h.Evaluate("el => el.tagName")
	if err != nil {
		return "", err
	}
	return tagString(v), nil
}

func tagString(v interface{}) string {
	s, _ := v.(string)
	return strings.ToLower(s)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
