package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	// DefaultViewportWidth is the default browser viewport width.
	DefaultViewportWidth = 1280
	// DefaultViewportHeight is the default browser viewport height.
	DefaultViewportHeight = 720
	// DefaultTimeout is the default timeout for driver operations.
	DefaultTimeout = 5 * time.Second
)

// Session holds the resources of the single browser session.
type Session struct {
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    Page

	raw playwright.Page

	Headless  bool
	CreatedAt time.Time
}

// SessionOptions configures the browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout is the default timeout applied to driver operations
	Timeout time.Duration

	// StartURL is opened once the page exists; empty means about:blank
	StartURL string
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.Viewport == nil || o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		o.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}
