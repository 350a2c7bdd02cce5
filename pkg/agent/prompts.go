package agent

import (
	"fmt"
	"strings"

	"github.com/entrhq/voicenav/pkg/types"
)

// recentItems caps how many labels from the last candidate scan are quoted.
const recentItems = 5

// planPrompt builds the decomposition request. The last action and the
// labels of the last candidate scan give the model continuity between
// commands, such as "the second one" after a list of results.
func planPrompt(command, lastAction string, recent []string, snapshot string) string {
	var context string
	if lastAction != "" {
		context = fmt.Sprintf("Last action: %s. ", lastAction)
	}
	if len(recent) > recentItems {
		recent = recent[:recentItems]
	}
	if len(recent) > 0 {
		context += fmt.Sprintf("Recently listed items: %s. ", strings.Join(recent, "; "))
	}
	return "You are an AI web automation assistant. " + context +
		"Given the following user command and the current page HTML, break the command into a list of actionable steps " +
		"(open, search, click, type, scroll, play, extract, summarize). " +
		"Only use 'search' if the user explicitly says so. If the user says 'click [something]' after a search, " +
		"do NOT add a search step, only click a result matching that text. " +
		"For each step, specify the action and the target (e.g., 'search: HTML', 'click: JQ Tutorial', 'summarize'). " +
		`Respond in JSON as a list of steps, e.g. [{"action": "search", "target": "HTML"}, {"action": "click", "target": "JQ Tutorial"}].` +
		"\nUser command: " + command +
		"\nHTML:\n" + snapshot
}

// FilterPlan keeps a click command from re-running a search: when command
// starts with "click", search steps are dropped, and an emptied plan becomes
// a single click on the rest of the command.
func FilterPlan(command string, plan types.Plan) types.Plan {
	command = strings.TrimSpace(command)
	if !strings.HasPrefix(strings.ToLower(command), "click") {
		return plan
	}
	filtered := make(types.Plan, 0, len(plan))
	for _, step := range plan {
		if step.Normalized().Action != types.ActionSearch {
			filtered = append(filtered, step)
		}
	}
	if len(filtered) == 0 {
		target := strings.TrimSpace(command[len("click"):])
		filtered = types.Plan{{Action: types.ActionClick, Target: target}}
	}
	return filtered
}
