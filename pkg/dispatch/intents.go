package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/voicenav/pkg/browser"
	"github.com/entrhq/voicenav/pkg/heuristics"
	"github.com/entrhq/voicenav/pkg/llm/parser"
	"github.com/entrhq/voicenav/pkg/locator"
	"github.com/entrhq/voicenav/pkg/resolve"
	"github.com/entrhq/voicenav/pkg/synth"
)

func (d *Dispatcher) open(cmd Command) Outcome {
	url := NormalizeURL(cmd.Target)
	if !d.policy.Allows(url) {
		d.logger.Warnf("navigation to %s blocked by policy", url)
		d.report.Fail("Opening %s is not allowed.", url)
		return Outcome{}
	}
	if err := d.page.Navigate(url); err != nil {
		d.logger.Errorf("failed to open %s: %v", url, err)
		d.report.Fail("Failed to open %s.", url)
		d.dump("open_url")
		return Outcome{}
	}
	d.report.Say("Opened %s", url)
	return Outcome{Done: true}
}

func (d *Dispatcher) search(ctx context.Context, cmd Command) Outcome {
	box, ok := d.searchBox(ctx)
	if !ok {
		d.report.Fail("No search bar found.")
		d.dump("search_not_found")
		return Outcome{}
	}
	err := fill(box, cmd.Target)
	if err == nil {
		err = box.Press("Enter")
	}
	if err != nil {
		d.logger.Errorf("failed to type/search: %v", err)
		d.report.Fail("Failed to submit search.")
		d.dump("search")
		return Outcome{}
	}
	d.report.Say("Search submitted.")
	return Outcome{Done: true}
}

func (d *Dispatcher) searchBox(ctx context.Context) (browser.Element, bool) {
	if m, ok := d.locator.First(ctx, locator.ByRole("searchbox", "")); ok {
		return m.Element, true
	}
	return d.locator.Locate(ctx, "Search", heuristics.Search())
}

// login locates the form before asking for credentials, so nothing is
// requested on a page without one.
func (d *Dispatcher) login(ctx context.Context) Outcome {
	user, ok := d.locator.Locate(ctx, "Username", heuristics.Username())
	if !ok {
		user, ok = d.locator.Locate(ctx, "Email", heuristics.Username())
	}
	pass, passOK := d.locator.Locate(ctx, "Password", heuristics.Password())
	if !ok || !passOK {
		d.report.Fail("Could not find login fields or buttons automatically.")
		d.dump("login_not_found")
		return Outcome{}
	}

	var submit browser.Element
	if m, found := d.locator.First(ctx, locator.ByRole("button", "Login")); found {
		submit = m.Element
	} else if el, found := d.locator.Locate(ctx, "Login", heuristics.Submit()); found {
		submit = el
	}

	if d.prompter == nil {
		d.report.Fail("Login failed.")
		d.logger.Errorf("login requested without a credential prompter")
		return Outcome{}
	}
	username, password, err := d.prompter.Credentials(ctx)
	if err != nil {
		d.logger.Errorf("failed to read credentials: %v", err)
		d.report.Fail("Login failed.")
		return Outcome{}
	}

	err = fill(user, username)
	if err == nil {
		err = fill(pass, password)
	}
	if err == nil && submit != nil {
		err = submit.Click()
	}
	if err != nil {
		d.logger.Errorf("failed to fill login fields: %v", err)
		d.report.Fail("Login failed.")
		d.dump("login")
		return Outcome{}
	}
	if submit == nil {
		d.report.Say("Filled in the login form, but found no login button.")
		return Outcome{}
	}
	d.report.Say("Login attempted.")
	return Outcome{Done: true}
}

func (d *Dispatcher) typeInField(ctx context.Context, cmd Command) Outcome {
	text, field := cmd.Text, cmd.Field
	if field == "" {
		d.report.Fail("No field specified. Please say the field name or try again.")
		return Outcome{}
	}
	typeText := func(el browser.Element) error { return fill(el, text) }

	if cmd.Selector != "" {
		if _, ok := d.try(ctx, typeText, locator.WaitSelector(cmd.Selector, d.timing.SelectorTimeout)); ok {
			d.report.Say("Typed %s in the selected field.", text)
			return Outcome{Done: true}
		}
		d.report.Fail("Element not found or not interactable after waiting.")
		return Outcome{}
	}
	if ref, ok := cmd.FieldNumber(); ok {
		return d.typeInSuggested(text, ref)
	}

	tiers := locator.Accessible(field, "textbox")
	tiers = append(tiers, d.synthesized(synth.KindField, field, func() {
		d.report.Say("Trying to type %s in %s using AI and heuristics.", text, field)
	}))
	tiers = append(tiers, locator.Probes(heuristics.Probes(field), d.timing.ProbeTimeout)...)

	if m, ok := d.try(ctx, typeText, tiers...); ok {
		d.logger.Infof("typed into %q via %s", field, m.Strategy)
		d.report.Say("Typed %s in %s.", text, field)
		return Outcome{Done: true}
	}
	d.suggestInputs()
	return Outcome{}
}

func (d *Dispatcher) typeInSuggested(text, ref string) Outcome {
	n, ok := resolve.ParseChoice(ref, len(d.session.InputSuggestions))
	if !ok {
		d.report.Fail("No such field.")
		return Outcome{}
	}
	if err := fill(d.session.InputSuggestions[n-1], text); err != nil {
		d.logger.Warnf("typing into field number %d failed: %v", n, err)
		d.report.Fail("Could not type in field number %d.", n)
		d.dump("type_field")
		return Outcome{}
	}
	d.report.Say("Typed %s in field number %d.", text, n)
	return Outcome{Done: true}
}

func (d *Dispatcher) typeFocused(cmd Command) Outcome {
	el, err := d.page.ActiveElement()
	var tag string
	if err == nil {
		tag, err = el.TagName()
	}
	if err != nil {
		d.logger.Errorf("error typing in focused field: %v", err)
		d.report.Fail("Could not type in the focused field.")
		return Outcome{}
	}
	if !browser.IsTextInput(tag) {
		d.report.Fail("Focused element is not a text field.")
		return Outcome{}
	}
	if err := fill(el, cmd.Text); err != nil {
		d.logger.Errorf("error typing in focused field: %v", err)
		d.report.Fail("Could not type in the focused field.")
		return Outcome{}
	}
	d.report.Say("Typed %s in the focused field.", cmd.Text)
	return Outcome{Done: true}
}

func (d *Dispatcher) clickSelector(ctx context.Context, cmd Command) Outcome {
	d.report.Say("Trying to click element by selector.")
	if _, ok := d.try(ctx, activate, locator.WaitSelector(cmd.Selector, d.timing.SelectorTimeout)); ok {
		d.report.Say("Clicked element with selector.")
		return Outcome{Done: true}
	}

	d.logger.Debugf("selector %q not clickable in main page, trying frames", cmd.Selector)
	var frames []locator.Strategy
	for i, f := range d.page.Frames() {
		frames = append(frames, locator.InFrame(i, f, cmd.Selector, d.timing.FrameTimeout))
	}
	if _, ok := d.try(ctx, activate, frames...); ok {
		d.report.Say("Clicked element with selector in iframe.")
		return Outcome{Done: true}
	}

	d.report.Fail("Element not found or not clickable after waiting.")
	d.dump("click")
	d.suggestClickable()
	return Outcome{}
}

func (d *Dispatcher) clickSuggestion(cmd Command) Outcome {
	idx := cmd.Index
	if idx < 0 || idx >= len(d.session.Suggestions) {
		d.report.Fail("No such suggestion.")
		return Outcome{}
	}
	if err := activate(d.session.Suggestions[idx]); err != nil {
		d.logger.Warnf("suggested element %d not clickable: %v", idx, err)
		d.report.Fail("Could not click suggested element number %d.", idx)
		return Outcome{}
	}
	d.report.Say("Clicked suggested element number %d.", idx)
	return Outcome{Done: true}
}

// clickItem resolves against a fresh scan only; it never asks the
// completion service.
func (d *Dispatcher) clickItem(cmd Command) Outcome {
	target := cmd.Target
	cands := d.candidates()

	if c, ok := resolve.PickOrdinal(target, cands); ok {
		return d.clickCandidate(c)
	}

	matches := resolve.Matches(target, cands, d.resolver.StrictThreshold, d.resolver.MaxChoices)
	switch len(matches) {
	case 0:
	case 1:
		return d.clickCandidate(matches[0])
	default:
		for i, m := range matches {
			d.report.Say("Option %d: %s", i+1, m.Label)
		}
		d.report.Say("Please say the number of the option you want.")
		return Outcome{Choice: &Choice{Target: target, Options: matches}}
	}

	if c, ok := resolve.BestMatch(target, cands, d.resolver.LenientThreshold); ok {
		return d.clickCandidate(c)
	}

	d.report.Fail("I couldn't find a matching item. Here are the top results.")
	for i, c := range cands {
		if i >= d.resolver.ResultListing {
			break
		}
		d.report.Say("Result %d: %s", i+1, c.Label)
	}
	return Outcome{}
}

func (d *Dispatcher) clickCandidate(c resolve.Candidate) Outcome {
	if err := activate(c.Element); err != nil {
		d.logger.Warnf("candidate %d (%q) not clickable: %v", c.Index, c.Label, err)
		d.report.Fail("Could not click %s.", c.Label)
		d.dump("click")
		return Outcome{}
	}
	d.report.Say("Clicked item %s", c.Label)
	return Outcome{Done: true}
}

func (d *Dispatcher) click(ctx context.Context, cmd Command) Outcome {
	target := cmd.Target
	tiers := []locator.Strategy{
		locator.ByRole("button", target),
		locator.ByLabel(target),
		locator.ByTestID(target),
		locator.ByText(target),
		d.synthesized(synth.KindClickable, target, nil),
	}
	if m, ok := d.try(ctx, activate, tiers...); ok {
		d.logger.Infof("clicked %q via %s", target, m.Strategy)
		d.report.Say("Clicked %s.", target)
		return Outcome{Done: true}
	}

	cands := d.candidates()
	c, ok := resolve.PickOrdinal(target, cands)
	if !ok {
		c, ok = resolve.BestMatch(target, cands, d.resolver.LenientThreshold)
	}
	if ok && activate(c.Element) == nil {
		d.report.Say("Clicked item %s", c.Label)
		return Outcome{Done: true}
	}

	d.report.Fail("Could not find clickable element by heuristics.")
	d.dump("click")
	d.suggestClickable()
	return Outcome{}
}

// play relies on the completion service alone; media pages rarely expose
// labels worth probing.
func (d *Dispatcher) play(ctx context.Context, cmd Command) Outcome {
	target := cmd.Target
	d.report.Say("Trying to play %s using AI.", target)
	res := d.synth.Synthesize(ctx, d.page, synth.KindPlay, target)
	if !res.OK {
		d.report.Fail("AI could not help with playing.")
		return Outcome{}
	}
	if _, ok := d.try(ctx, activate, locator.WaitSelector(res.Selector, d.timing.SelectorTimeout)); !ok {
		d.report.Fail("Element not found or not clickable after waiting.")
		d.dump("click")
		return Outcome{}
	}
	d.report.Say("Played %s.", target)
	return Outcome{Done: true}
}

func (d *Dispatcher) scroll(dy int, direction string) Outcome {
	if err := d.page.ScrollBy(0, dy); err != nil {
		d.logger.Errorf("scroll %s error: %v", direction, err)
		d.report.Fail("Could not scroll %s.", direction)
		return Outcome{}
	}
	d.report.Say("Scrolled %s.", direction)
	return Outcome{Done: true}
}

func (d *Dispatcher) summarize(ctx context.Context) Outcome {
	summary, err := d.synth.Summarize(ctx, d.page)
	if err != nil {
		d.logger.Errorf("summarize failed: %v", err)
		d.report.Fail("I could not summarize this page.")
		return Outcome{}
	}
	d.report.Print("Summary: %s", summary)
	d.report.Speak(summary)
	return Outcome{Done: true}
}

func (d *Dispatcher) extract(ctx context.Context, cmd Command) Outcome {
	info, err := d.synth.Extract(ctx, d.page, cmd.Target)
	if err != nil {
		d.logger.Errorf("extract %q failed: %v", cmd.Target, err)
		d.report.Fail("I could not extract information about %s.", cmd.Target)
		return Outcome{}
	}
	d.report.Print("Extracted info about %s: %s", cmd.Target, info)
	d.report.Speak(info)
	return Outcome{Done: true}
}

// try applies act to the element of each strategy in turn. An element act
// fails on demotes to the next strategy like a lookup miss does.
func (d *Dispatcher) try(ctx context.Context, act func(browser.Element) error, strategies ...locator.Strategy) (locator.Match, bool) {
	for _, s := range strategies {
		m, ok := d.locator.First(ctx, s)
		if !ok {
			continue
		}
		if err := act(m.Element); err != nil {
			d.logger.Debugf("strategy %s: action failed: %v", m.Strategy, err)
			continue
		}
		return m, true
	}
	return locator.Match{}, false
}

var errNoSelector = errors.New("no usable selector synthesized")

// synthesized is a lazy tier asking the completion service for a selector.
// Text selectors are queried immediately; CSS selectors are waited for.
// announce, if set, runs before the request.
func (d *Dispatcher) synthesized(kind synth.Kind, target string, announce func()) locator.Strategy {
	return locator.Strategy{
		Name: "ai " + kind.String(),
		Find: func(ctx context.Context, page browser.Page) (browser.Element, error) {
			if announce != nil {
				announce()
			}
			res := d.synth.Synthesize(ctx, page, kind, target)
			if !res.OK {
				return nil, errNoSelector
			}
			if parser.IsTextSelector(res.Selector) {
				return page.Locate(res.Selector), nil
			}
			return page.WaitFor(res.Selector, d.timing.SelectorTimeout)
		},
	}
}

// suggestClickable lists visible buttons and links for "click #n".
func (d *Dispatcher) suggestClickable() {
	var (
		labels   []string
		elements []browser.Element
		failures int
	)
	selectors := heuristics.Suggestable()
	for _, sel := range selectors {
		found, err := d.page.QueryAll(sel)
		if err != nil {
			d.logger.Warnf("query %q failed: %v", sel, err)
			failures++
			continue
		}
		for _, el := range found {
			if !browser.Visible(el) {
				continue
			}
			text, err := el.InnerText()
			if text = strings.TrimSpace(text); err != nil || text == "" {
				continue
			}
			labels = append(labels, text)
			elements = append(elements, el)
		}
	}

	if len(labels) == 0 {
		if failures == len(selectors) {
			d.report.Fail("Could not suggest clickable elements.")
			d.dump("suggest_clickable_elements")
			return
		}
		d.report.Fail("No visible clickable elements found.")
		return
	}
	if limit := d.resolver.SuggestionLimit; limit > 0 && len(labels) > limit {
		labels, elements = labels[:limit], elements[:limit]
	}
	d.report.Print("Some clickable elements you can try (use 'click #<number>'):")
	for i, label := range labels {
		d.report.Print("#%d: %s", i, label)
	}
	d.session.Suggestions = elements
	d.report.Speak("Some clickable elements are suggested in the console.")
}

// inputLabelAttrs name a field in the input listing, in order.
var inputLabelAttrs = []string{"aria-label", "placeholder", "name", "id"}

// suggestInputs lists the visible input fields for "type ... in field
// number n".
func (d *Dispatcher) suggestInputs() {
	var found []browser.Element
	for _, sel := range heuristics.Inputs() {
		els, err := d.page.QueryAll(sel)
		if err != nil {
			d.logger.Warnf("query %q failed: %v", sel, err)
			continue
		}
		found = append(found, els...)
	}

	var visible []browser.Element
	var labels []string
	for i, el := range found {
		if !browser.Visible(el) {
			continue
		}
		label := fmt.Sprintf("input #%d", i)
		for _, name := range inputLabelAttrs {
			if v, err := el.Attribute(name); err == nil && strings.TrimSpace(v) != "" {
				label = strings.TrimSpace(v)
				break
			}
		}
		visible = append(visible, el)
		labels = append(labels, label)
	}
	d.session.InputSuggestions = visible

	if len(visible) == 0 {
		d.report.Fail("I could not find the field, and there are no visible fields to choose from.")
		d.dump("type_field")
		return
	}
	d.report.Say("I could not find the field. Here are some visible fields. Say 'type ... in field number 1' to select.")
	for i, label := range labels {
		d.report.Say("Field number %d: %s", i+1, label)
	}
}
