package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/voicenav/pkg/types"
)

func update(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

func TestModelStatus(t *testing.T) {
	m := newModel()
	assert.Equal(t, types.StatusReady, m.status)
	assert.Contains(t, m.View(), "Ready")

	m = update(t, m, statusMsg(types.StatusListening))
	assert.Equal(t, types.StatusListening, m.status)
	assert.Contains(t, m.View(), "Listening...")

	m = update(t, m, statusMsg(types.StatusProcessing))
	assert.Contains(t, m.View(), "Processing...")
}

func TestModelEvents(t *testing.T) {
	tests := []struct {
		name    string
		events  []*types.Event
		contain []string
		absent  []string
	}{
		{
			name:    "heard",
			events:  []*types.Event{types.NewHeardEvent("open youtube")},
			contain: []string{`heard: "open youtube"`},
		},
		{
			name:    "unintelligible then heard clears problem",
			events:  []*types.Event{types.NewUnintelligibleEvent(), types.NewHeardEvent("scroll down")},
			contain: []string{"scroll down"},
			absent:  []string{"Did not catch that"},
		},
		{
			name:    "service unavailable",
			events:  []*types.Event{types.NewServiceUnavailableEvent(errors.New("offline"))},
			contain: []string{"Speech service unavailable"},
		},
		{
			name:    "error",
			events:  []*types.Event{types.NewErrorEvent("play cats", errors.New("boom"))},
			contain: []string{`"play cats" failed`},
		},
		{
			name:    "choice options",
			events:  []*types.Event{types.NewChoiceRequestEvent([]string{"Submit Order", "Submit Orders"})},
			contain: []string{"1. Submit Order", "2. Submit Orders"},
		},
		{
			name: "completion clears options",
			events: []*types.Event{
				types.NewChoiceRequestEvent([]string{"Submit Order"}),
				types.NewCommandCompleteEvent("click item submit order"),
			},
			absent: []string{"1. Submit Order"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel()
			for _, e := range tt.events {
				m = update(t, m, eventMsg{event: e})
			}
			view := m.View()
			for _, s := range tt.contain {
				assert.Contains(t, view, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, view, s)
			}
		})
	}
}

func TestModelCtrlCQuits(t *testing.T) {
	_, cmd := newModel().Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, listeningTeal, statusColor(types.StatusListening))
	assert.Equal(t, processingOrange, statusColor(types.StatusProcessing))
	assert.Equal(t, readyCharcoal, statusColor(types.StatusReady))
}

func TestOverlayStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	o := NewOverlay(ctx, WithOutput(&out))

	done := make(chan error, 1)
	go func() { done <- o.Run() }()

	o.SetStatus(types.StatusListening)
	o.Emit(types.NewHeardEvent("scroll up"))
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("overlay did not stop")
	}
}
