package headless

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/voicenav/pkg/agent"
	"github.com/entrhq/voicenav/pkg/browser/browsertest"
	"github.com/entrhq/voicenav/pkg/config"
	"github.com/entrhq/voicenav/pkg/dispatch"
	"github.com/entrhq/voicenav/pkg/feedback"
	"github.com/entrhq/voicenav/pkg/logging"
	"github.com/entrhq/voicenav/pkg/synth"
)

const shop = `<html><body>
<input type="search" name="q">
<a href="/so">Submit Order</a>
<a href="/sos">Submit Orders</a>
<a href="/help">Help</a>
</body></html>`

type harness struct {
	page *browsertest.Page
	rec  *feedback.Recorder
	ag   *agent.Agent
	d    *dispatch.Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Debug.Enabled = false
	cfg.Timing.StepDelay = 0
	page := browsertest.New(t, shop)
	report, rec := feedback.NewRecorder()
	s := synth.New(nil, nil, cfg.LLM, logging.Nop())
	d := dispatch.New(page, s, report, dispatch.WithConfig(cfg), dispatch.WithLogger(logging.Nop()))
	ag := agent.New(d, s, report, agent.WithConfig(cfg), agent.WithLogger(logging.Nop()))
	return &harness{page: page, rec: rec, ag: ag, d: d}
}

func script(stop bool, steps ...Step) *Config {
	cfg := DefaultConfig()
	cfg.Name = "test"
	cfg.StopOnFailure = stop
	cfg.Artifacts.Enabled = false
	cfg.Steps = steps
	return cfg
}

func TestRunScript(t *testing.T) {
	h := newHarness(t)
	cfg := script(true,
		Step{Command: "search orders"},
		Step{Command: "click item submit order", Choose: 2},
		Step{Command: "scroll down"},
	)

	exec, err := NewExecutor(h.ag, h.d, cfg, WithLogger(logging.Nop()))
	require.NoError(t, err)
	summary, err := exec.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, statusSuccess, summary.Status)
	assert.Equal(t, ExecutionMetrics{Steps: 3, Completed: 3}, summary.Metrics)
	assert.Equal(t, []string{"Enter"}, h.page.State(`input[name="q"]`).Presses)
	assert.Equal(t, 1, h.page.State(`a[href="/sos"]`).Clicks)
	assert.Len(t, h.page.Scrolls(), 1)

	choice := summary.Steps[1]
	assert.Equal(t, "click_item", choice.Intent)
	assert.Equal(t, []string{"Submit Order", "Submit Orders"}, choice.Options)
	assert.Equal(t, 2, choice.Chose)
}

func TestRunStopsOnFailure(t *testing.T) {
	h := newHarness(t)
	cfg := script(true,
		Step{Command: "scroll up"},
		Step{Command: "click item submit order"},
		Step{Command: "scroll down"},
	)

	exec, err := NewExecutor(h.ag, h.d, cfg)
	require.NoError(t, err)
	summary, err := exec.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, statusPartialSuccess, summary.Status)
	assert.Equal(t, ExecutionMetrics{Steps: 3, Completed: 1, Failed: 1, Skipped: 1}, summary.Metrics)
	assert.Contains(t, summary.Steps[1].Error, "needs a choice between 2 options")
	assert.Equal(t, stepSkipped, summary.Steps[2].Status)
	assert.Len(t, h.page.Scrolls(), 1)
}

func TestRunContinuesWithoutStop(t *testing.T) {
	h := newHarness(t)
	cfg := script(false,
		Step{Command: "click selector #missing"},
		Step{Command: "scroll down"},
	)

	exec, err := NewExecutor(h.ag, h.d, cfg)
	require.NoError(t, err)
	summary, err := exec.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, statusPartialSuccess, summary.Status)
	assert.Equal(t, stepFailed, summary.Steps[0].Status)
	assert.Equal(t, "command did not complete", summary.Steps[0].Error)
	assert.Equal(t, stepCompleted, summary.Steps[1].Status)
}

type failingHandler struct{}

func (failingHandler) Handle(context.Context, string) (dispatch.Outcome, error) {
	return dispatch.Outcome{}, errors.New("page crashed")
}

func TestRunHandlerError(t *testing.T) {
	exec, err := NewExecutor(failingHandler{}, nil, script(true, Step{Command: "scroll down"}))
	require.NoError(t, err)
	summary, err := exec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, statusFailed, summary.Status)
	assert.Equal(t, "page crashed", summary.Steps[0].Error)
}

func TestRunCanceled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec, err := NewExecutor(h.ag, h.d, script(true, Step{Command: "scroll down"}))
	require.NoError(t, err)
	summary, err := exec.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, statusFailed, summary.Status)
	assert.Empty(t, h.page.Scrolls())
}

func TestRunWritesArtifacts(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	cfg := script(true, Step{Command: "scroll down"})
	cfg.Artifacts = ArtifactConfig{Enabled: true, OutputDir: "artifacts"}

	exec, err := NewExecutor(h.ag, h.d, cfg, WithWorkspace(dir))
	require.NoError(t, err)
	_, err = exec.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "artifacts", "execution.json"))
	require.NoError(t, err)
	var got ExecutionSummary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, statusSuccess, got.Status)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "scroll down", got.Steps[0].Command)

	md, err := os.ReadFile(filepath.Join(dir, "artifacts", "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "**Status:** success")
	assert.Contains(t, string(md), "1. ✅ `scroll down`")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
steps:
  - command: open example.com
  - command: click item result
    choose: 2
timeout: 30s
`), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Name)
	assert.True(t, cfg.StopOnFailure)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, []Step{{Command: "open example.com"}, {Command: "click item result", Choose: 2}}, cfg.Steps)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "no steps", mutate: func(c *Config) { c.Steps = nil }, wantErr: "no steps"},
		{name: "empty command", mutate: func(c *Config) { c.Steps = []Step{{}} }, wantErr: "command is required"},
		{name: "negative choice", mutate: func(c *Config) { c.Steps[0].Choose = -1 }, wantErr: "choose cannot be negative"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "timeout"},
		{name: "artifacts without dir", mutate: func(c *Config) { c.Artifacts = ArtifactConfig{Enabled: true} }, wantErr: "output_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Steps = []Step{{Command: "scroll down"}}
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}
