// Package agent is the fallback for commands outside the fixed grammar. It
// asks the completion service to break the command into a plan of grammar
// steps and runs them in order through the dispatcher.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"

	"github.com/entrhq/voicenav/pkg/config"
	"github.com/entrhq/voicenav/pkg/dispatch"
	"github.com/entrhq/voicenav/pkg/feedback"
	"github.com/entrhq/voicenav/pkg/llm/parser"
	"github.com/entrhq/voicenav/pkg/logging"
	"github.com/entrhq/voicenav/pkg/resolve"
	"github.com/entrhq/voicenav/pkg/synth"
	"github.com/entrhq/voicenav/pkg/types"
)

// Agent handles one command at a time: grammar first, plan second.
type Agent struct {
	dispatcher *dispatch.Dispatcher
	synth      *synth.Synthesizer
	report     *feedback.Reporter
	logger     *logging.Logger

	planMaxTokens int
	stepDelay     time.Duration
	copyExtracts  bool
	copy          func(string) error
}

// Option configures an Agent.
type Option func(*Agent)

// WithConfig applies plan, timing and extract settings from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(a *Agent) {
		a.planMaxTokens = cfg.LLM.PlanMaxTokens
		a.stepDelay = cfg.Timing.StepDelay
		a.copyExtracts = cfg.Debug.CopyExtracts
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Agent) {
		a.logger = l
	}
}

// WithClipboard replaces the system clipboard writer used for extract
// results.
func WithClipboard(write func(string) error) Option {
	return func(a *Agent) {
		a.copy = write
	}
}

// New creates an agent around a dispatcher.
func New(d *dispatch.Dispatcher, s *synth.Synthesizer, report *feedback.Reporter, opts ...Option) *Agent {
	defaults := config.DefaultConfig()
	a := &Agent{
		dispatcher:    d,
		synth:         s,
		report:        report,
		planMaxTokens: defaults.LLM.PlanMaxTokens,
		stepDelay:     defaults.Timing.StepDelay,
		copy:          clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dispatcher returns the dispatcher the agent drives.
func (a *Agent) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// Handle runs command through the grammar and falls back to a plan when the
// grammar does not recognize it. A plan that cannot be produced aborts the
// command after telling the user. The returned outcome may carry a pending
// choice for the caller to resolve.
func (a *Agent) Handle(ctx context.Context, command string) (dispatch.Outcome, error) {
	out, err := a.dispatcher.Dispatch(ctx, command)
	if !errors.Is(err, dispatch.ErrNotRecognized) {
		return out, err
	}

	a.logger.Infof("planning %q", command)
	plan, err := a.Plan(ctx, command)
	if err != nil {
		if ctx.Err() != nil {
			return dispatch.Outcome{}, ctx.Err()
		}
		a.logger.Warnf("no plan for %q: %v", command, err)
		a.report.Fail("I could not work out how to do that.")
		return dispatch.Outcome{}, nil
	}
	plan = FilterPlan(command, plan)
	a.logger.Infof("plan for %q: %v", command, plan)
	return a.Execute(ctx, plan)
}

// Plan asks the completion service to decompose command.
func (a *Agent) Plan(ctx context.Context, command string) (types.Plan, error) {
	snapshot, err := a.synth.Snapshot(a.dispatcher.Page())
	if err != nil {
		return nil, err
	}
	session := a.dispatcher.Session()
	prompt := planPrompt(command, session.LastAction, resolve.Labels(session.LastResults), snapshot)
	raw, err := a.synth.Complete(ctx, prompt, a.planMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("plan request failed: %w", err)
	}
	a.logger.Debugf("plan response: %q", raw)
	return parser.ParsePlan(raw)
}

// Execute runs plan steps in order with a settle delay between them. It
// stops early when a step needs a choice, returning that outcome, or when
// ctx is done.
func (a *Agent) Execute(ctx context.Context, plan types.Plan) (dispatch.Outcome, error) {
	var last dispatch.Outcome
	for i, step := range plan {
		step = step.Normalized()
		out, err := a.runStep(ctx, step)
		if err != nil {
			return last, err
		}
		a.dispatcher.Session().LastAction = string(step.Action)
		last = out
		if out.NeedsChoice() {
			if rest := len(plan) - i - 1; rest > 0 {
				a.logger.Infof("step %d needs a choice, dropping %d remaining steps", i+1, rest)
			}
			return out, nil
		}
		if i < len(plan)-1 {
			if err := sleep(ctx, a.stepDelay); err != nil {
				return last, err
			}
		}
	}
	return last, nil
}

func (a *Agent) runStep(ctx context.Context, step types.Step) (dispatch.Outcome, error) {
	switch step.Action {
	case types.ActionOpen, types.ActionSearch, types.ActionClick, types.ActionType, types.ActionScroll, types.ActionPlay:
		return a.dispatcher.Handle(ctx, step.Command())
	case types.ActionSummarize:
		summary, err := a.synth.Summarize(ctx, a.dispatcher.Page())
		if err != nil {
			a.logger.Warnf("summarize step failed: %v", err)
			return dispatch.Outcome{}, ctx.Err()
		}
		a.report.Print("Summary: %s", summary)
		return dispatch.Outcome{Intent: dispatch.IntentSummarize, Done: true}, nil
	case types.ActionExtract:
		info, err := a.synth.Extract(ctx, a.dispatcher.Page(), step.Target)
		if err != nil {
			a.logger.Warnf("extract step for %q failed: %v", step.Target, err)
			return dispatch.Outcome{}, ctx.Err()
		}
		a.report.Print("Extracted info about %s: %s", step.Target, info)
		if a.copyExtracts {
			if err := a.copy(info); err != nil {
				a.logger.Warnf("failed to copy extract to clipboard: %v", err)
			}
		}
		return dispatch.Outcome{Intent: dispatch.IntentExtract, Done: true}, nil
	default:
		a.logger.Warnf("unknown plan action %q, skipping", step.Action)
		return dispatch.Outcome{}, nil
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
