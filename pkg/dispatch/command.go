package dispatch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/entrhq/voicenav/pkg/speech"
)

// Intent identifies which resolution chain handles a command.
type Intent string

const (
	IntentUnknown         Intent = ""
	IntentOpen            Intent = "open"
	IntentSearch          Intent = "search"
	IntentLogin           Intent = "login"
	IntentTypeField       Intent = "type"
	IntentTypeFocused     Intent = "type_focused"
	IntentClickSelector   Intent = "click_selector"
	IntentClickSuggestion Intent = "click_suggestion"
	IntentClickItem       Intent = "click_item"
	IntentClick           Intent = "click"
	IntentPlay            Intent = "play"
	IntentScrollUp        Intent = "scroll_up"
	IntentScrollDown      Intent = "scroll_down"
	IntentSummarize       Intent = "summarize"
	IntentExtract         Intent = "extract"
)

// Command is one parsed utterance.
type Command struct {
	Raw        string
	Normalized string
	Tokens     []string
	Intent     Intent

	// Text is the text to type.
	Text string
	// Field is the field reference of a labeled type command.
	Field string
	// Target is the URL token, search terms, click/play target or extract
	// subject.
	Target string
	// Selector is an explicit driver selector.
	Selector string
	// Index is the suggestion number of click #n.
	Index int
}

var (
	typeFieldPattern   = regexp.MustCompile(`(?i)^type\s+(.+)\s+in(?:\s+(.*))?$`)
	typePattern        = regexp.MustCompile(`(?i)^type\s+(.+)$`)
	clickSelectorRegex = regexp.MustCompile(`(?i)^click\s+selector\s+(.+)$`)
	clickNumberPattern = regexp.MustCompile(`(?i)^click\s+(?:#|number\s+)\s*(\d+)$`)
	clickItemPattern   = regexp.MustCompile(`(?i)^click\s+item\s+(.+)$`)
	clickPattern       = regexp.MustCompile(`(?i)^click\s+(.+)$`)
	playPattern        = regexp.MustCompile(`(?i)^play\s+(.+)$`)
	extractPattern     = regexp.MustCompile(`(?i)^extract\s+(.+)$`)

	fieldSelectorPattern = regexp.MustCompile(`(?i)^selector\s+(.+)$`)
	fieldNumberPattern   = regexp.MustCompile(`(?i)^field\s*(?:number|#)\s*(.+)$`)
)

var summarizePhrases = map[string]bool{
	"summarize":           true,
	"summarize page":      true,
	"summarize this page": true,
	"summarize the page":  true,
}

// Parse matches raw against the command grammar. Intents are tried in a
// fixed precedence; a command that matches none has IntentUnknown.
func Parse(raw string) Command {
	text := strings.Join(strings.Fields(speech.Normalize(raw)), " ")
	cmd := Command{
		Raw:        raw,
		Normalized: strings.ToLower(text),
	}
	cmd.Tokens = strings.Fields(cmd.Normalized)
	if len(cmd.Tokens) == 0 {
		return cmd
	}

	switch head := cmd.Tokens[0]; {
	case head == "open" && len(cmd.Tokens) > 1:
		cmd.Intent = IntentOpen
		cmd.Target = speech.Normalize(cmd.Tokens[1])
		return cmd
	case head == "search" && len(cmd.Tokens) > 1:
		cmd.Intent = IntentSearch
		cmd.Target = strings.Join(strings.Fields(text)[1:], " ")
		return cmd
	case head == "login":
		cmd.Intent = IntentLogin
		return cmd
	}

	if m := typeFieldPattern.FindStringSubmatch(text); m != nil {
		cmd.Intent = IntentTypeField
		cmd.Text = strings.TrimSpace(m[1])
		cmd.Field = strings.TrimSpace(m[2])
		if s := fieldSelectorPattern.FindStringSubmatch(cmd.Field); s != nil {
			cmd.Selector = strings.TrimSpace(s[1])
		}
		return cmd
	}
	if m := typePattern.FindStringSubmatch(text); m != nil {
		cmd.Intent = IntentTypeFocused
		cmd.Text = strings.TrimSpace(m[1])
		return cmd
	}
	if m := clickSelectorRegex.FindStringSubmatch(text); m != nil {
		cmd.Intent = IntentClickSelector
		cmd.Selector = strings.TrimSpace(m[1])
		return cmd
	}
	if m := clickNumberPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			cmd.Intent = IntentClickSuggestion
			cmd.Index = n
			return cmd
		}
	}
	if m := clickItemPattern.FindStringSubmatch(text); m != nil {
		cmd.Intent = IntentClickItem
		cmd.Target = strings.TrimSpace(m[1])
		return cmd
	}
	if m := clickPattern.FindStringSubmatch(text); m != nil {
		cmd.Intent = IntentClick
		cmd.Target = strings.TrimSpace(m[1])
		return cmd
	}
	if m := playPattern.FindStringSubmatch(text); m != nil {
		cmd.Intent = IntentPlay
		cmd.Target = strings.TrimSpace(m[1])
		return cmd
	}

	switch {
	case cmd.Normalized == "scroll up":
		cmd.Intent = IntentScrollUp
	case cmd.Normalized == "scroll down":
		cmd.Intent = IntentScrollDown
	case summarizePhrases[cmd.Normalized]:
		cmd.Intent = IntentSummarize
	default:
		if m := extractPattern.FindStringSubmatch(text); m != nil {
			cmd.Intent = IntentExtract
			cmd.Target = strings.TrimSpace(m[1])
		}
	}
	return cmd
}

// FieldNumber returns the spoken number of a "field number N" reference.
func (c Command) FieldNumber() (string, bool) {
	m := fieldNumberPattern.FindStringSubmatch(c.Field)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Recognized reports whether the command matched the grammar.
func (c Command) Recognized() bool {
	return c.Intent != IntentUnknown
}
