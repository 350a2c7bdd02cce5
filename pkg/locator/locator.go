// Package locator finds page elements by folding over an ordered list of
// lookup strategies. The first strategy that yields an element which exists
// and is visible at call time wins; every other outcome (not found, driver
// error, timeout, hidden) moves on to the next strategy.
package locator

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/voicenav/pkg/browser"
	"github.com/entrhq/voicenav/pkg/logging"
)

// DefaultProbeTimeout bounds each waiting probe.
const DefaultProbeTimeout = 2 * time.Second

// Strategy is one named way of looking up an element.
type Strategy struct {
	Name string
	Find func(ctx context.Context, page browser.Page) (browser.Element, error)
}

// Match is a located element and the strategy that produced it.
type Match struct {
	Strategy string
	Element  browser.Element
}

// Locator runs strategies against a page.
type Locator struct {
	page   browser.Page
	logger *logging.Logger
}

// New creates a locator for page.
func New(page browser.Page, logger *logging.Logger) *Locator {
	return &Locator{page: page, logger: logger}
}

// First returns the first visible element produced by strategies, in order.
// Visibility is checked on every call; nothing is remembered between calls.
func (l *Locator) First(ctx context.Context, strategies ...Strategy) (Match, bool) {
	for _, s := range strategies {
		if ctx.Err() != nil {
			return Match{}, false
		}
		el, err := s.Find(ctx, l.page)
		if err != nil {
			l.logger.Debugf("strategy %s: %v", s.Name, err)
			continue
		}
		if !browser.Visible(el) {
			l.logger.Debugf("strategy %s: no visible element", s.Name)
			continue
		}
		l.logger.Debugf("strategy %s matched", s.Name)
		return Match{Strategy: s.Name, Element: el}, true
	}
	return Match{}, false
}

// Locate finds an input by accessible label, test id and textbox role for
// hint, then by each fallback probe with an immediate query.
func (l *Locator) Locate(ctx context.Context, hint string, probes []string) (browser.Element, bool) {
	var strategies []Strategy
	if hint != "" {
		strategies = append(strategies, Accessible(hint, "textbox")...)
	}
	for _, p := range probes {
		strategies = append(strategies, BySelector(p))
	}
	m, ok := l.First(ctx, strategies...)
	return m.Element, ok
}

// Accessible returns the label, test id and role lookups for name.
func Accessible(name, role string) []Strategy {
	return []Strategy{ByLabel(name), ByTestID(name), ByRole(role, name)}
}

// ByLabel looks up an element by its accessible label.
func ByLabel(text string) Strategy {
	return Strategy{
		Name: "label",
		Find: func(_ context.Context, page browser.Page) (browser.Element, error) {
			return page.ByLabel(text), nil
		},
	}
}

// ByTestID looks up an element by its test id attribute.
func ByTestID(id string) Strategy {
	return Strategy{
		Name: "test-id",
		Find: func(_ context.Context, page browser.Page) (browser.Element, error) {
			return page.ByTestID(id), nil
		},
	}
}

// ByRole looks up an element by ARIA role and accessible name. An empty name
// matches any element with the role.
func ByRole(role, name string) Strategy {
	return Strategy{
		Name: "role:" + role,
		Find: func(_ context.Context, page browser.Page) (browser.Element, error) {
			return page.ByRole(role, name), nil
		},
	}
}

// ByText looks up an element whose visible text is exactly text.
func ByText(text string) Strategy {
	return Strategy{
		Name: "text",
		Find: func(_ context.Context, page browser.Page) (browser.Element, error) {
			return page.ByText(text), nil
		},
	}
}

// BySelector looks up the first element currently matching a driver
// selector, without waiting.
func BySelector(selector string) Strategy {
	return Strategy{
		Name: "selector " + selector,
		Find: func(_ context.Context, page browser.Page) (browser.Element, error) {
			return page.Locate(selector), nil
		},
	}
}

// WaitSelector waits up to timeout for a visible element matching selector.
func WaitSelector(selector string, timeout time.Duration) Strategy {
	return Strategy{
		Name: "wait " + selector,
		Find: func(ctx context.Context, page browser.Page) (browser.Element, error) {
			return page.WaitFor(selector, bounded(ctx, timeout))
		},
	}
}

// InFrame waits up to timeout for selector inside one frame.
func InFrame(index int, frame browser.Frame, selector string, timeout time.Duration) Strategy {
	return Strategy{
		Name: fmt.Sprintf("frame[%d] %s", index, selector),
		Find: func(ctx context.Context, _ browser.Page) (browser.Element, error) {
			return frame.WaitFor(selector, bounded(ctx, timeout))
		},
	}
}

// Probes returns a waiting strategy per probe, in order.
func Probes(selectors []string, timeout time.Duration) []Strategy {
	out := make([]Strategy, 0, len(selectors))
	for _, s := range selectors {
		out = append(out, WaitSelector(s, timeout))
	}
	return out
}

// bounded shortens timeout to the context deadline, if that comes first.
// A zero driver timeout means wait forever, so the result is never below a
// millisecond.
func bounded(ctx context.Context, timeout time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout < time.Millisecond {
		return time.Millisecond
	}
	return timeout
}
