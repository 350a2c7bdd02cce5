// Package dispatch implements the fixed command grammar. Each recognized
// intent runs an ordered chain of resolution tiers against the live page;
// a tier that finds nothing, times out or hits a driver error hands over to
// the next one, and only an exhausted chain is reported as a failure.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/voicenav/pkg/browser"
	"github.com/entrhq/voicenav/pkg/config"
	"github.com/entrhq/voicenav/pkg/feedback"
	"github.com/entrhq/voicenav/pkg/locator"
	"github.com/entrhq/voicenav/pkg/logging"
	"github.com/entrhq/voicenav/pkg/resolve"
	"github.com/entrhq/voicenav/pkg/speech"
	"github.com/entrhq/voicenav/pkg/synth"
)

// ErrNotRecognized is returned by Dispatch for commands outside the grammar.
var ErrNotRecognized = errors.New("command not recognized")

// Dispatcher resolves grammar commands against one page.
type Dispatcher struct {
	page     browser.Page
	locator  *locator.Locator
	synth    *synth.Synthesizer
	report   *feedback.Reporter
	prompter speech.CredentialPrompter
	session  *SessionContext
	policy   *Policy
	logger   *logging.Logger

	resolver config.ResolverConfig
	timing   config.TimingConfig
	debug    config.DebugConfig
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithConfig applies the resolver, timing and debug sections of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(d *Dispatcher) {
		d.resolver = cfg.Resolver
		d.timing = cfg.Timing
		d.debug = cfg.Debug
	}
}

// WithSession shares a session context with the caller.
func WithSession(s *SessionContext) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.session = s
		}
	}
}

// WithPrompter sets where login credentials come from.
func WithPrompter(p speech.CredentialPrompter) Option {
	return func(d *Dispatcher) {
		d.prompter = p
	}
}

// WithPolicy restricts navigation.
func WithPolicy(p *Policy) Option {
	return func(d *Dispatcher) {
		d.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// New creates a dispatcher for page.
func New(page browser.Page, s *synth.Synthesizer, report *feedback.Reporter, opts ...Option) *Dispatcher {
	defaults := config.DefaultConfig()
	d := &Dispatcher{
		page:     page,
		synth:    s,
		report:   report,
		session:  &SessionContext{},
		resolver: defaults.Resolver,
		timing:   defaults.Timing,
		debug:    defaults.Debug,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.locator = locator.New(page, d.logger)
	return d
}

// Session returns the session context the dispatcher writes.
func (d *Dispatcher) Session() *SessionContext {
	return d.session
}

// Page returns the page commands act on.
func (d *Dispatcher) Page() browser.Page {
	return d.page
}

// Dispatch parses raw and runs its resolution chain. It returns
// ErrNotRecognized, without telling the user, when raw is outside the
// grammar; every other path reports its result before returning.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) (Outcome, error) {
	cmd := Parse(raw)
	if !cmd.Recognized() {
		d.logger.Debugf("not in grammar: %q", raw)
		return Outcome{}, ErrNotRecognized
	}
	if err := ctx.Err(); err != nil {
		return Outcome{Intent: cmd.Intent}, err
	}

	d.logger.Infof("dispatching %s: %q", cmd.Intent, raw)
	start := time.Now()
	out := d.run(ctx, cmd)
	out.Intent = cmd.Intent
	d.session.LastAction = string(cmd.Intent)
	d.logger.Debugf("%s finished in %s (done=%t, choice=%t)", cmd.Intent, time.Since(start), out.Done, out.NeedsChoice())
	return out, nil
}

// Handle is Dispatch for callers that have no fallback: a command outside
// the grammar is announced as unsupported.
func (d *Dispatcher) Handle(ctx context.Context, raw string) (Outcome, error) {
	out, err := d.Dispatch(ctx, raw)
	if errors.Is(err, ErrNotRecognized) {
		d.report.Fail("Command not recognized or not supported.")
		return out, nil
	}
	return out, err
}

func (d *Dispatcher) run(ctx context.Context, cmd Command) Outcome {
	switch cmd.Intent {
	case IntentOpen:
		return d.open(cmd)
	case IntentSearch:
		return d.search(ctx, cmd)
	case IntentLogin:
		return d.login(ctx)
	case IntentTypeField:
		return d.typeInField(ctx, cmd)
	case IntentTypeFocused:
		return d.typeFocused(cmd)
	case IntentClickSelector:
		return d.clickSelector(ctx, cmd)
	case IntentClickSuggestion:
		return d.clickSuggestion(cmd)
	case IntentClickItem:
		return d.clickItem(cmd)
	case IntentClick:
		return d.click(ctx, cmd)
	case IntentPlay:
		return d.play(ctx, cmd)
	case IntentScrollUp:
		return d.scroll(-d.resolver.ScrollOffset, "up")
	case IntentScrollDown:
		return d.scroll(d.resolver.ScrollOffset, "down")
	case IntentSummarize:
		return d.summarize(ctx)
	case IntentExtract:
		return d.extract(ctx, cmd)
	}
	return Outcome{}
}

// Resolve completes a pending choice by clicking option n (one-based).
func (d *Dispatcher) Resolve(ctx context.Context, choice *Choice, n int) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if choice == nil || n < 1 || n > len(choice.Options) {
		return Outcome{Intent: IntentClickItem}, fmt.Errorf("choice %d out of range", n)
	}
	c := choice.Options[n-1]
	if err := activate(c.Element); err != nil {
		d.logger.Warnf("click on choice %d (%q) failed: %v", n, c.Label, err)
		d.report.Fail("Could not click %s.", c.Label)
		d.dump("click")
		return Outcome{Intent: IntentClickItem}, nil
	}
	d.report.Say("Clicked item: %s", c.Label)
	d.session.LastAction = string(IntentClickItem)
	return Outcome{Intent: IntentClickItem, Done: true}, nil
}

// dump saves a screenshot and markup when debug output is enabled.
func (d *Dispatcher) dump(tag string) {
	if !d.debug.Enabled {
		return
	}
	base, err := browser.SaveDebugInfo(d.page, d.debug.Dir, tag)
	if err != nil {
		d.logger.Warnf("failed to save debug info for %s: %v", tag, err)
		return
	}
	d.report.Print("[DEBUG] Saved screenshot and HTML as %s.png/.html", base)
}

// activate scrolls el into view, best effort, and clicks it.
func activate(el browser.Element) error {
	_ = el.ScrollIntoView()
	return el.Click()
}

// fill replaces the value of el with text, typing it key by key.
func fill(el browser.Element, text string) error {
	if err := el.Fill(""); err != nil {
		return err
	}
	return el.Type(text)
}

// candidates scans the page and remembers the scan for follow-ups.
func (d *Dispatcher) candidates() []resolve.Candidate {
	cands := resolve.Scan(d.page)
	d.session.LastResults = cands
	d.logger.Debugf("scanned %d clickable candidates", len(cands))
	return cands
}
