package browser

import (
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that matched nothing.
var ErrNotFound = errors.New("element not found")

// Element is a live handle to (or lazy locator for) one page element.
//
// Every method re-reads the live DOM; nothing is cached between calls.
type Element interface {
	IsVisible() (bool, error)
	Click() error
	// Fill replaces the element's value.
	Fill(value string) error
	// Type sends the text key by key, as a user would.
	Type(text string) error
	Press(key string) error
	ScrollIntoView() error
	InnerText() (string, error)
	// Attribute returns the attribute value, or "" when it is absent.
	Attribute(name string) (string, error)
	// TagName returns the lowercased tag name.
	TagName() (string, error)
}

// Frame is a document that can be searched with a bounded wait.
type Frame interface {
	// WaitFor waits up to timeout for a visible element matching selector.
	WaitFor(selector string, timeout time.Duration) (Element, error)
}

// Page is the main document of the browser session.
type Page interface {
	Frame

	Navigate(url string) error
	URL() string
	// Content returns the serialized markup of the whole document.
	Content() (string, error)
	Screenshot() ([]byte, error)

	// Accessibility-first lookups. They return lazy elements; a lookup that
	// matches nothing yields an element whose IsVisible reports false.
	ByLabel(text string) Element
	ByTestID(id string) Element
	ByRole(role, name string) Element
	ByText(text string) Element

	// Locate returns a lazy element for a driver selector, which may be CSS or
	// a text= selector.
	Locate(selector string) Element

	// QueryAll returns every element currently matching a CSS selector, in
	// document order.
	QueryAll(selector string) ([]Element, error)

	// Frames returns every frame of the page, main frame first.
	Frames() []Frame

	// ActiveElement returns the focused element.
	ActiveElement() (Element, error)

	ScrollBy(dx, dy int) error
}

// Visible reports whether el exists and is currently visible. Errors count
// as not visible.
func Visible(el Element) bool {
	if el == nil {
		return false
	}
	ok, err := el.IsVisible()
	return err == nil && ok
}

// IsTextInput reports whether a tag name accepts typed text.
func IsTextInput(tag string) bool {
	return tag == "input" || tag == "textarea"
}
