package dispatch

import (
	"github.com/entrhq/voicenav/pkg/browser"
	"github.com/entrhq/voicenav/pkg/resolve"
)

// SessionContext is the state carried between commands. It is owned by the
// session loop goroutine and passed by pointer; nothing else writes it.
type SessionContext struct {
	// LastAction is the intent or plan action most recently performed.
	LastAction string
	// LastResults is the most recent clickable candidate scan. The planner
	// quotes its labels so follow-ups like "the second one" have a referent.
	LastResults []resolve.Candidate
	// Suggestions backs "click #n" and is zero-based.
	Suggestions []browser.Element
	// InputSuggestions backs "type ... in field number n" and is one-based
	// when spoken.
	InputSuggestions []browser.Element
}

// Choice is a pending disambiguation: several candidates matched and the
// user has to pick one by number.
type Choice struct {
	Target  string
	Options []resolve.Candidate
}

// Labels returns the option labels in spoken order.
func (c *Choice) Labels() []string {
	return resolve.Labels(c.Options)
}

// Outcome is the result of one dispatched command.
type Outcome struct {
	Intent Intent
	// Done is true when the command's terminal action succeeded.
	Done bool
	// Choice is set when the command is suspended on a disambiguation.
	Choice *Choice
}

// NeedsChoice reports whether the outcome waits for a numbered choice.
func (o Outcome) NeedsChoice() bool {
	return o.Choice != nil && len(o.Choice.Options) > 0
}
