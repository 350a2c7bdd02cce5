package parser

import (
	"regexp"
	"strings"
)

// SelectorStrategy names the extraction step that produced a selector.
type SelectorStrategy string

const (
	StrategyCSSFence  SelectorStrategy = "css-fence"
	StrategyFence     SelectorStrategy = "fence"
	StrategyInline    SelectorStrategy = "inline"
	StrategyFirstLine SelectorStrategy = "first-line"
	StrategyNone      SelectorStrategy = "unparseable"
)

// SelectorResult is either a selector and the strategy that found it, or
// Unparseable.
type SelectorResult struct {
	Selector string
	Strategy SelectorStrategy
	OK       bool
}

// Unparseable is the result when no strategy yields a selector.
var Unparseable = SelectorResult{Strategy: StrategyNone}

type selectorExtractor struct {
	strategy SelectorStrategy
	extract  func(string) (string, bool)
}

var (
	cssFence    = regexp.MustCompile("(?i)```css\\s*([\\s\\S]*?)(```|\\z)")
	anyFence    = regexp.MustCompile("```(?:[a-zA-Z]*\\n)?\\s*([\\s\\S]*?)(```|\\z)")
	inlineTicks = regexp.MustCompile("`([^`]+)`")
	// text= selectors keep their quoted argument even when it contains spaces.
	quotedText = regexp.MustCompile(`^text\s*=\s*("[^"]*"|'[^']*')`)
)

var selectorExtractors = []selectorExtractor{
	{StrategyCSSFence, fenced(cssFence)},
	{StrategyFence, fenced(anyFence)},
	{StrategyInline, func(s string) (string, bool) {
		m := inlineTicks.FindStringSubmatch(s)
		if m == nil {
			return "", false
		}
		return cut(m[1])
	}},
	{StrategyFirstLine, firstPlausibleLine},
}

// ParseSelector extracts a selector from a completion. Strategies are tried
// in order: a css fenced block, any fenced block, inline back-ticks, then the
// first line that is not an explanation or a bullet. Whatever is found is
// cut at the first whitespace or brace and stripped of surrounding quotes.
func ParseSelector(raw string) SelectorResult {
	text := strings.TrimSpace(StripThinking(raw))
	if text == "" {
		return Unparseable
	}
	for _, e := range selectorExtractors {
		if sel, ok := e.extract(text); ok {
			return SelectorResult{Selector: sel, Strategy: e.strategy, OK: true}
		}
	}
	return Unparseable
}

func fenced(re *regexp.Regexp) func(string) (string, bool) {
	return func(s string) (string, bool) {
		m := re.FindStringSubmatch(s)
		if m == nil {
			return "", false
		}
		for _, line := range strings.Split(m[1], "\n") {
			if sel, ok := cut(line); ok {
				return sel, true
			}
		}
		return "", false
	}
}

func firstPlausibleLine(s string) (string, bool) {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if line == "" || strings.HasPrefix(lower, "explanation") ||
			strings.HasPrefix(line, "*") || strings.HasPrefix(lower, "to ") {
			continue
		}
		return cut(line)
	}
	return "", false
}

// cut trims a candidate to its leading selector token.
func cut(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if m := quotedText.FindStringSubmatch(s); m != nil {
		return "text=" + m[1], true
	}
	if i := strings.IndexFunc(s, func(r rune) bool {
		return r == '{' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	}); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, `"'`)
	return s, s != ""
}

// IsTextSelector reports whether sel uses the driver's text selector syntax
// rather than CSS.
func IsTextSelector(sel string) bool {
	for _, prefix := range []string{`text=`, `text:"`, `text"`, `text'=`} {
		if strings.HasPrefix(sel, prefix) {
			return true
		}
	}
	return false
}
