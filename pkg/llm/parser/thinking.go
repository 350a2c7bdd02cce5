// Package parser extracts usable values from free-form completion text:
// element selectors and step plans. Completions are unconstrained prose, so
// every parser here degrades to "nothing usable" instead of failing loudly.
package parser

import "regexp"

// reasoningBlock matches <think>/<thinking> sections some models emit before
// the answer. An unterminated block runs to the end of the text.
var reasoningBlock = regexp.MustCompile(`(?is)<(think|thinking)>.*?(</(think|thinking)>|\z)`)

// StripThinking removes reasoning sections from a completion.
func StripThinking(s string) string {
	return reasoningBlock.ReplaceAllString(s, "")
}
