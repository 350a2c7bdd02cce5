package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/voicenav/pkg/browser/browsertest"
	"github.com/entrhq/voicenav/pkg/config"
	"github.com/entrhq/voicenav/pkg/dispatch"
	"github.com/entrhq/voicenav/pkg/feedback"
	"github.com/entrhq/voicenav/pkg/llm"
	"github.com/entrhq/voicenav/pkg/logging"
	"github.com/entrhq/voicenav/pkg/resolve"
	"github.com/entrhq/voicenav/pkg/synth"
	"github.com/entrhq/voicenav/pkg/types"
)

const tutorials = `<html><body>
<input type="search" name="q">
<ul>
  <li><a href="/html">HTML Tutorial</a></li>
  <li><a href="/jq">JQ Tutorial</a></li>
  <li><a href="/so">Submit Order</a></li>
  <li><a href="/sos">Submit Orders</a></li>
</ul>
</body></html>`

// planner answers plan prompts with plan and everything else with an error.
type planner struct {
	plan    string
	prompts []llm.Request
}

func (p *planner) Complete(_ context.Context, req llm.Request) (string, error) {
	p.prompts = append(p.prompts, req)
	if strings.Contains(req.Prompt, "break the command") && p.plan != "" {
		return p.plan, nil
	}
	return "", errors.New("unavailable")
}

func (p *planner) GetModel() string { return "planner" }

type harness struct {
	page    *browsertest.Page
	planner *planner
	rec     *feedback.Recorder
	copied  []string
	agent   *Agent
}

func newHarness(t *testing.T, plan string, describe llm.Provider) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Debug.Enabled = false
	cfg.Debug.CopyExtracts = true
	cfg.Timing.StepDelay = time.Millisecond

	h := &harness{
		page:    browsertest.New(t, tutorials),
		planner: &planner{plan: plan},
	}
	report, rec := feedback.NewRecorder()
	h.rec = rec
	s := synth.New(h.planner, describe, cfg.LLM, logging.Nop())
	d := dispatch.New(h.page, s, report, dispatch.WithConfig(cfg), dispatch.WithLogger(logging.Nop()))
	h.agent = New(d, s, report,
		WithConfig(cfg),
		WithLogger(logging.Nop()),
		WithClipboard(func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		}),
	)
	return h
}

func TestGrammarCommandSkipsPlanning(t *testing.T) {
	h := newHarness(t, `[{"action":"open","target":"evil.com"}]`, nil)

	out, err := h.agent.Handle(context.Background(), "scroll down")
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Empty(t, h.planner.prompts)
	assert.Empty(t, h.page.Navigations())
}

func TestClickAfterSearchDropsSearchStep(t *testing.T) {
	h := newHarness(t, `Here is the plan:
[{"action": "search", "target": "HTML"}, {"action": "click", "target": "JQ Tutorial"}]`, nil)

	out, err := h.agent.Handle(context.Background(), "clicking JQ Tutorial please")
	require.NoError(t, err)
	assert.True(t, out.Done)

	require.Len(t, h.planner.prompts, 1)
	assert.Equal(t, 300, h.planner.prompts[0].MaxTokens)
	assert.Contains(t, h.planner.prompts[0].Prompt, "User command: clicking JQ Tutorial please")

	assert.Empty(t, h.page.State(`input[name="q"]`).Presses)
	assert.Equal(t, 1, h.page.State(`a[href="/jq"]`).Clicks)
	assert.Equal(t, "Clicked JQ Tutorial.", h.rec.LastSpoken())
	assert.Equal(t, "click", h.agent.Dispatcher().Session().LastAction)
}

func TestPlanIncludesLastAction(t *testing.T) {
	h := newHarness(t, `[{"action":"scroll","target":"down"}]`, nil)
	h.agent.Dispatcher().Session().LastAction = "search"

	_, err := h.agent.Handle(context.Background(), "show me more")
	require.NoError(t, err)
	require.Len(t, h.planner.prompts, 1)
	assert.Contains(t, h.planner.prompts[0].Prompt, "Last action: search. ")
	assert.Len(t, h.page.Scrolls(), 1)
}

func TestPlanQuotesRecentResults(t *testing.T) {
	h := newHarness(t, `[{"action":"scroll","target":"down"}]`, nil)
	h.agent.Dispatcher().Session().LastResults = resolve.Scan(h.page)
	require.NotEmpty(t, h.agent.Dispatcher().Session().LastResults)

	_, err := h.agent.Handle(context.Background(), "show me the second one")
	require.NoError(t, err)
	require.Len(t, h.planner.prompts, 1)
	assert.Contains(t, h.planner.prompts[0].Prompt, "Recently listed items: ")
}

func TestPlanPromptCapsRecentItems(t *testing.T) {
	p := planPrompt("next", "click_item", []string{"a", "b", "c", "d", "e", "f"}, "")
	assert.Contains(t, p, "Last action: click_item. Recently listed items: a; b; c; d; e. ")
	assert.NotContains(t, p, "; f")
}

func TestUnparseablePlanAborts(t *testing.T) {
	h := newHarness(t, "I am not sure what you mean.", nil)

	out, err := h.agent.Handle(context.Background(), "do the thing")
	require.NoError(t, err)
	assert.False(t, out.Done)
	assert.Equal(t, "I could not work out how to do that.", h.rec.LastSpoken())
	assert.Empty(t, h.page.Scrolls())
	assert.Empty(t, h.page.Navigations())
}

func TestPlanServiceFailureAborts(t *testing.T) {
	h := newHarness(t, "", nil)

	_, err := h.agent.Handle(context.Background(), "do the thing")
	require.NoError(t, err)
	assert.Equal(t, "I could not work out how to do that.", h.rec.LastSpoken())
}

func TestDescribeStepsAreNotVoiced(t *testing.T) {
	describer := llm.ProviderFunc(func(_ context.Context, req llm.Request) (string, error) {
		if strings.Contains(req.Prompt, "Summarize") {
			return "A list of tutorials.", nil
		}
		return "HTML and JQ.", nil
	})
	h := newHarness(t, `[{"action":"summarize"},{"action":"extract","target":"tutorials"},{"action":"dance","target":"now"}]`, describer)

	out, err := h.agent.Handle(context.Background(), "tell me about this page")
	require.NoError(t, err)
	assert.False(t, out.Done)

	assert.Contains(t, h.rec.Printed(), "Summary: A list of tutorials.")
	assert.Contains(t, h.rec.Printed(), "Extracted info about tutorials: HTML and JQ.")
	assert.Empty(t, h.rec.Spoken())
	assert.Equal(t, []string{"HTML and JQ."}, h.copied)
	assert.Equal(t, "dance", h.agent.Dispatcher().Session().LastAction)
}

func TestExecuteStopsAtChoice(t *testing.T) {
	h := newHarness(t, "", nil)
	plan := types.Plan{
		{Action: types.ActionClick, Target: "item submit order"},
		{Action: types.ActionScroll, Target: "down"},
	}

	out, err := h.agent.Execute(context.Background(), plan)
	require.NoError(t, err)
	require.True(t, out.NeedsChoice())
	assert.Equal(t, []string{"Submit Order", "Submit Orders"}, out.Choice.Labels())
	assert.Empty(t, h.page.Scrolls())
}

func TestExecuteWaitsBetweenSteps(t *testing.T) {
	h := newHarness(t, "", nil)
	h.agent.stepDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	plan := types.Plan{
		{Action: types.ActionScroll, Target: "down"},
		{Action: types.ActionScroll, Target: "down"},
	}
	start := time.Now()
	_, err := h.agent.Execute(ctx, plan)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Minute)
	assert.Len(t, h.page.Scrolls(), 1)
}

func TestExecuteNoDelayAfterLastStep(t *testing.T) {
	h := newHarness(t, "", nil)
	h.agent.stepDelay = time.Hour

	out, err := h.agent.Execute(context.Background(), types.Plan{{Action: "Scroll", Target: " up "}})
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Equal(t, []browsertest.Scroll{{DY: -500}}, h.page.Scrolls())
}

func TestFilterPlan(t *testing.T) {
	searchAndClick := types.Plan{
		{Action: types.ActionSearch, Target: "HTML"},
		{Action: types.ActionClick, Target: "JQ Tutorial"},
	}

	tests := []struct {
		name    string
		command string
		plan    types.Plan
		want    types.Plan
	}{
		{
			name:    "click drops search",
			command: "click JQ Tutorial",
			plan:    searchAndClick,
			want:    types.Plan{{Action: types.ActionClick, Target: "JQ Tutorial"}},
		},
		{
			name:    "emptied plan becomes a click",
			command: "Click JQ Tutorial",
			plan:    types.Plan{{Action: "SEARCH", Target: "JQ"}},
			want:    types.Plan{{Action: types.ActionClick, Target: "JQ Tutorial"}},
		},
		{
			name:    "other commands untouched",
			command: "find the JQ tutorial",
			plan:    searchAndClick,
			want:    searchAndClick,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterPlan(tt.command, tt.plan))
		})
	}
}

func TestPlanPrompt(t *testing.T) {
	p := planPrompt("find cats", "", nil, "<p>x</p>")
	assert.NotContains(t, p, "Last action")
	assert.NotContains(t, p, "Recently listed")
	assert.True(t, strings.HasSuffix(p, "\nUser command: find cats\nHTML:\n<p>x</p>"))
}
