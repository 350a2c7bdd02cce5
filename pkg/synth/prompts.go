package synth

import "fmt"

// Kind selects the selector prompt flavour.
type Kind int

const (
	// KindField asks for an input field.
	KindField Kind = iota
	// KindClickable asks for a link or button, allowing text= selectors.
	KindClickable
	// KindPlay asks for the element that starts a media item.
	KindPlay
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindClickable:
		return "clickable"
	case KindPlay:
		return "play"
	default:
		return "unknown"
	}
}

func selectorPrompt(kind Kind, target, snapshot string) string {
	var instruction string
	switch kind {
	case KindClickable:
		instruction = fmt.Sprintf("Given the following HTML, what is the best Playwright-compatible CSS selector or text selector "+
			"to find and click a clickable element (like a link or button) whose visible text contains or is similar to '%s'? "+
			"Do NOT use :contains(). If the element is best found by visible text, respond with Playwright's text selector syntax, "+
			"e.g., text=\"%s\". Respond with only the selector string.", target, target)
	case KindPlay:
		instruction = fmt.Sprintf("Given the following HTML, what is the best CSS selector to find and click the element to play '%s'? "+
			"If on YouTube, this should be the first video or the video matching '%s'. Respond with only the selector string.",
			target, target)
	default:
		instruction = fmt.Sprintf("Given the following HTML, what is the best Playwright-compatible CSS selector to find the field for '%s'? "+
			"Respond with only the selector string, no explanation, no code block, no curly braces.", target)
	}
	return instruction + "\nHTML:\n" + snapshot
}

func summaryPrompt(snapshot string) string {
	return "Summarize the main content of this web page in 2-3 sentences.\nHTML:\n" + snapshot
}

func extractPrompt(target, snapshot string) string {
	return fmt.Sprintf("Extract all information about '%s' from this web page. List any relevant data, links, or facts.\nHTML:\n%s",
		target, snapshot)
}
