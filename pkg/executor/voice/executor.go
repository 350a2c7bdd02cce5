// Package voice runs the listen, interpret, act loop of a voice session.
//
// Example usage:
//
//	listener := speech.NewConsoleListener(os.Stdin, nil)
//	report := feedback.New(os.Stdout, speech.NewConsoleSpeaker(os.Stdout))
//	ag := agent.New(dispatcher, synthesizer, report)
//
//	executor := voice.NewExecutor(ag, listener, report,
//	    voice.WithConfig(cfg),
//	)
//	if err := executor.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/entrhq/voicenav/pkg/config"
	"github.com/entrhq/voicenav/pkg/dispatch"
	"github.com/entrhq/voicenav/pkg/feedback"
	"github.com/entrhq/voicenav/pkg/logging"
	"github.com/entrhq/voicenav/pkg/resolve"
	"github.com/entrhq/voicenav/pkg/speech"
	"github.com/entrhq/voicenav/pkg/types"
)

// Handler interprets one transcribed command.
type Handler interface {
	Handle(ctx context.Context, command string) (dispatch.Outcome, error)
}

// Resolver completes a pending choice with the user's one-based pick.
type Resolver interface {
	Resolve(ctx context.Context, choice *dispatch.Choice, n int) (dispatch.Outcome, error)
}

// Executor drives a voice session. All browser work happens on the goroutine
// that calls Run.
type Executor struct {
	handler  Handler
	resolver Resolver
	listener speech.Listener
	report   *feedback.Reporter
	status   types.StatusSink
	events   types.EventSink
	logger   *logging.Logger

	exitPhrases []string
	cooldown    time.Duration
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithConfig applies exit phrases and the post-command cooldown from cfg.
func WithConfig(cfg *config.Config) ExecutorOption {
	return func(e *Executor) {
		e.exitPhrases = cfg.Session.ExitPhrases
		e.cooldown = cfg.Timing.Cooldown
	}
}

// WithResolver sets who completes pending choices. Without one, choices are
// announced but never resolved.
func WithResolver(r Resolver) ExecutorOption {
	return func(e *Executor) {
		e.resolver = r
	}
}

// WithStatus sets the sink that receives status transitions.
func WithStatus(s types.StatusSink) ExecutorOption {
	return func(e *Executor) {
		e.status = s
	}
}

// WithEvents sets the sink that receives session events.
func WithEvents(s types.EventSink) ExecutorOption {
	return func(e *Executor) {
		e.events = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = l
	}
}

// NewExecutor creates a voice executor.
func NewExecutor(h Handler, listener speech.Listener, report *feedback.Reporter, opts ...ExecutorOption) *Executor {
	defaults := config.DefaultConfig()
	e := &Executor{
		handler:     h,
		listener:    listener,
		report:      report,
		status:      types.StatusFunc(func(types.Status) {}),
		events:      types.EventFunc(func(*types.Event) {}),
		exitPhrases: defaults.Session.ExitPhrases,
		cooldown:    defaults.Timing.Cooldown,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run announces activation and handles commands until the user says an exit
// phrase, the listener runs out of input, or ctx is done. It returns nil on a
// requested exit and ctx.Err() on cancellation.
func (e *Executor) Run(ctx context.Context) error {
	e.status.SetStatus(types.StatusReady)
	e.report.Say("Voice recognition is now active. Please speak your command.")
	e.events.Emit(types.NewActivatedEvent())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		command, err := e.listen(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				e.logger.Infof("input closed, ending session")
				e.status.SetStatus(types.StatusReady)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.apologize(err)
			e.status.SetStatus(types.StatusReady)
			continue
		}

		e.logger.Infof("heard %q", command)
		e.events.Emit(types.NewHeardEvent(command))
		if e.isExit(command) {
			e.report.Say("Exiting.")
			e.events.Emit(types.NewExitEvent())
			e.status.SetStatus(types.StatusReady)
			return nil
		}

		if err := e.handle(ctx, command); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Errorf("command %q failed: %v", command, err)
			e.events.Emit(types.NewErrorEvent(command, err))
		} else {
			e.events.Emit(types.NewCommandCompleteEvent(command))
		}

		e.status.SetStatus(types.StatusReady)
		if err := sleep(ctx, e.cooldown); err != nil {
			return err
		}
	}
}

// listen captures one utterance, moving the status through Listening and
// Processing.
func (e *Executor) listen(ctx context.Context) (string, error) {
	e.status.SetStatus(types.StatusListening)
	text, err := e.listener.Listen(ctx)
	e.status.SetStatus(types.StatusProcessing)
	if err != nil {
		return "", err
	}
	text = speech.Normalize(text)
	if text == "" {
		return "", speech.ErrUnintelligible
	}
	return text, nil
}

func (e *Executor) apologize(err error) {
	switch {
	case errors.Is(err, speech.ErrUnintelligible):
		e.events.Emit(types.NewUnintelligibleEvent())
		e.report.Fail("Sorry, I did not understand that. Please try again.")
	default:
		e.logger.Warnf("speech recognition failed: %v", err)
		e.events.Emit(types.NewServiceUnavailableEvent(err))
		e.report.Fail("Could not request results from the speech recognition service. Please try again.")
	}
}

func (e *Executor) isExit(command string) bool {
	command = strings.ToLower(speech.Normalize(command))
	for _, phrase := range e.exitPhrases {
		if command == strings.ToLower(phrase) {
			return true
		}
	}
	return false
}

func (e *Executor) handle(ctx context.Context, command string) error {
	out, err := e.handler.Handle(ctx, command)
	if err != nil {
		return err
	}
	for out.NeedsChoice() {
		if e.resolver == nil {
			e.logger.Warnf("choice for %q left unresolved: no resolver", out.Choice.Target)
			return nil
		}
		out, err = e.choose(ctx, out.Choice)
		if err != nil {
			return err
		}
	}
	return nil
}

// choose listens until the user names one of the options, then resolves the
// choice. Only cancellation ends the wait early.
func (e *Executor) choose(ctx context.Context, choice *dispatch.Choice) (dispatch.Outcome, error) {
	e.events.Emit(types.NewChoiceRequestEvent(choice.Labels()))
	for {
		if err := ctx.Err(); err != nil {
			return dispatch.Outcome{}, err
		}
		answer, err := e.listen(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return dispatch.Outcome{}, fmt.Errorf("input closed while waiting for a choice: %w", err)
			}
			if ctx.Err() != nil {
				return dispatch.Outcome{}, ctx.Err()
			}
			e.apologize(err)
			continue
		}
		e.events.Emit(types.NewHeardEvent(answer))
		n, ok := resolve.ParseChoice(answer, len(choice.Options))
		if !ok {
			e.logger.Debugf("%q is not one of %d options", answer, len(choice.Options))
			continue
		}
		return e.resolver.Resolve(ctx, choice, n)
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
