package headless

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/entrhq/voicenav/pkg/executor/voice"
	"github.com/entrhq/voicenav/pkg/logging"
)

const (
	statusSuccess        = "success"
	statusFailed         = "failed"
	statusPartialSuccess = "partial_success"

	stepCompleted = "completed"
	stepFailed    = "failed"
	stepSkipped   = "skipped"
)

// Executor runs a script through the same handler a voice session uses.
type Executor struct {
	handler        voice.Handler
	resolver       voice.Resolver
	config         *Config
	artifactWriter *ArtifactWriter
	logger         *logging.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithWorkspace resolves a relative artifact directory against dir.
func WithWorkspace(dir string) Option {
	return func(e *Executor) {
		if e.artifactWriter != nil && !filepath.IsAbs(e.config.Artifacts.OutputDir) {
			e.artifactWriter = NewArtifactWriter(filepath.Join(dir, e.config.Artifacts.OutputDir))
		}
	}
}

// NewExecutor creates a headless executor. resolver answers scripted choices.
func NewExecutor(h voice.Handler, resolver voice.Resolver, config *Config, opts ...Option) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	e := &Executor{
		handler:  h,
		resolver: resolver,
		config:   config,
	}
	if config.Artifacts.Enabled {
		e.artifactWriter = NewArtifactWriter(config.Artifacts.OutputDir)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes every step in order and writes artifacts when enabled. The
// returned error is non-nil only when the run was cut short by ctx or the
// timeout, or artifacts could not be written; step failures are reported in
// the summary.
func (e *Executor) Run(ctx context.Context) (*ExecutionSummary, error) {
	summary := &ExecutionSummary{
		Name:      e.config.Name,
		Status:    "running",
		StartTime: time.Now(),
	}
	e.logger.Infof("starting script %q with %d steps", e.config.Name, len(e.config.Steps))

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	runErr := e.runSteps(ctx, summary)
	e.finish(summary, runErr)

	if e.artifactWriter != nil {
		if err := e.artifactWriter.WriteAll(summary); err != nil {
			e.logger.Errorf("writing artifacts: %v", err)
			if runErr == nil {
				runErr = err
			}
		}
	}
	return summary, runErr
}

func (e *Executor) runSteps(ctx context.Context, summary *ExecutionSummary) error {
	stopped := false
	for i, step := range e.config.Steps {
		if stopped {
			summary.Steps = append(summary.Steps, StepResult{Command: step.Command, Status: stepSkipped})
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		result := e.runStep(ctx, step)
		summary.Steps = append(summary.Steps, result)
		if err := ctx.Err(); err != nil {
			return err
		}

		if result.Status == stepFailed {
			e.logger.Warnf("step %d %q failed: %s", i+1, step.Command, result.Error)
			stopped = e.config.StopOnFailure
		}
	}
	return nil
}

func (e *Executor) runStep(ctx context.Context, step Step) StepResult {
	start := time.Now()
	result := StepResult{Command: step.Command}

	out, err := e.handler.Handle(ctx, step.Command)
	if err == nil && out.NeedsChoice() {
		result.Options = out.Choice.Labels()
		if step.Choose == 0 {
			err = fmt.Errorf("command needs a choice between %d options and the step has none", len(result.Options))
		} else {
			result.Chose = step.Choose
			out, err = e.resolver.Resolve(ctx, out.Choice, step.Choose)
		}
	}

	result.Intent = string(out.Intent)
	switch {
	case err != nil:
		result.Status = stepFailed
		result.Error = err.Error()
	case !out.Done:
		result.Status = stepFailed
		result.Error = "command did not complete"
	default:
		result.Status = stepCompleted
	}
	result.Duration = time.Since(start)
	return result
}

func (e *Executor) finish(summary *ExecutionSummary, runErr error) {
	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)

	for _, s := range summary.Steps {
		switch s.Status {
		case stepCompleted:
			summary.Metrics.Completed++
		case stepFailed:
			summary.Metrics.Failed++
		case stepSkipped:
			summary.Metrics.Skipped++
		}
	}
	summary.Metrics.Steps = len(e.config.Steps)

	switch {
	case runErr != nil:
		summary.Status = statusFailed
		summary.Error = runErr.Error()
	case summary.Metrics.Completed == summary.Metrics.Steps:
		summary.Status = statusSuccess
	case summary.Metrics.Completed == 0:
		summary.Status = statusFailed
	default:
		summary.Status = statusPartialSuccess
	}
	e.logger.Infof("script %q finished: %s (%d/%d steps)", e.config.Name, summary.Status, summary.Metrics.Completed, summary.Metrics.Steps)
}
