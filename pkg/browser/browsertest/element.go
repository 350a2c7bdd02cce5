package browsertest

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/entrhq/voicenav/pkg/browser"
)

// Element is a fake browser.Element. A nil node represents a lookup that
// matched nothing.
type Element struct {
	page *Page
	node *html.Node
}

var _ browser.Element = (*Element)(nil)

// Exists reports whether the element resolved to a node.
func (e *Element) Exists() bool { return e.node != nil }

func (e *Element) IsVisible() (bool, error) {
	if e.node == nil {
		return false, nil
	}
	return visible(e.node), nil
}

func (e *Element) Click() error {
	if err := e.actionable(); err != nil {
		return err
	}
	e.page.record(e.node, func(s *State) { s.Clicks++ })
	return nil
}

func (e *Element) Fill(value string) error {
	if err := e.actionable(); err != nil {
		return err
	}
	e.page.record(e.node, func(s *State) {
		s.Value = value
		s.Typed = nil
	})
	return nil
}

func (e *Element) Type(text string) error {
	if err := e.actionable(); err != nil {
		return err
	}
	e.page.record(e.node, func(s *State) {
		s.Value += text
		s.Typed = append(s.Typed, text)
	})
	return nil
}

func (e *Element) Press(key string) error {
	if err := e.actionable(); err != nil {
		return err
	}
	e.page.record(e.node, func(s *State) { s.Presses = append(s.Presses, key) })
	return nil
}

func (e *Element) ScrollIntoView() error {
	if e.node == nil {
		return errMissing
	}
	e.page.record(e.node, func(s *State) { s.Scrolled++ })
	return nil
}

func (e *Element) InnerText() (string, error) {
	if e.node == nil {
		return "", errMissing
	}
	return innerText(e.node), nil
}

func (e *Element) Attribute(name string) (string, error) {
	if e.node == nil {
		return "", errMissing
	}
	v, _ := attr(e.node, name)
	return v, nil
}

func (e *Element) TagName() (string, error) {
	if e.node == nil {
		return "", errMissing
	}
	return strings.ToLower(e.node.Data), nil
}

func (e *Element) actionable() error {
	if e.node == nil {
		return errMissing
	}
	if !visible(e.node) {
		return &hiddenError{tag: e.node.Data}
	}
	return nil
}

type hiddenError struct {
	tag string
}

func (e *hiddenError) Error() string {
	return "element <" + e.tag + "> is not visible"
}
