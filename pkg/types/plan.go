package types

import "strings"

// StepAction names the operation a plan step performs.
type StepAction string

const (
	ActionOpen      StepAction = "open"      // ActionOpen navigates to a site.
	ActionSearch    StepAction = "search"    // ActionSearch submits a site search.
	ActionClick     StepAction = "click"     // ActionClick clicks an element.
	ActionType      StepAction = "type"      // ActionType types text.
	ActionScroll    StepAction = "scroll"    // ActionScroll scrolls the viewport.
	ActionPlay      StepAction = "play"      // ActionPlay starts a media item.
	ActionSummarize StepAction = "summarize" // ActionSummarize summarizes the page.
	ActionExtract   StepAction = "extract"   // ActionExtract extracts information about a target.
)

// Step is a single {action, target} entry of a plan.
type Step struct {
	Action StepAction `json:"action"`
	Target string     `json:"target"`
}

// Normalized returns the step with a lowercased, trimmed action and a trimmed target.
func (s Step) Normalized() Step {
	return Step{
		Action: StepAction(strings.ToLower(strings.TrimSpace(string(s.Action)))),
		Target: strings.TrimSpace(s.Target),
	}
}

// Command renders the step as a grammar command, e.g. "click JQ Tutorial".
func (s Step) Command() string {
	if s.Target == "" {
		return string(s.Action)
	}
	return string(s.Action) + " " + s.Target
}

// Plan is an ordered sequence of steps.
type Plan []Step
