// Package tui renders the status overlay: a one-line badge showing whether
// the assistant is ready, listening or processing, with the last transcript
// and any pending options underneath.
//
// The overlay runs its own bubbletea program. The session goroutine talks to
// it only through SetStatus, Emit and Println, which enqueue messages and
// never block on rendering.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/voicenav/pkg/types"
)

// Overlay is the status overlay.
type Overlay struct {
	program *tea.Program
}

var (
	_ types.StatusSink = (*Overlay)(nil)
	_ types.EventSink  = (*Overlay)(nil)
)

// OverlayOption is a function that configures the overlay's program.
type OverlayOption func(*[]tea.ProgramOption)

// WithOutput renders to w instead of the terminal.
func WithOutput(w io.Writer) OverlayOption {
	return func(opts *[]tea.ProgramOption) {
		*opts = append(*opts, tea.WithOutput(w))
	}
}

// NewOverlay creates an overlay bound to ctx. Keyboard input is left to the
// session, so the program never reads stdin.
func NewOverlay(ctx context.Context, opts ...OverlayOption) *Overlay {
	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(nil),
	}
	for _, opt := range opts {
		opt(&progOpts)
	}
	return &Overlay{program: tea.NewProgram(newModel(), progOpts...)}
}

// Run renders until Quit is called or the overlay's context is done.
func (o *Overlay) Run() error {
	if _, err := o.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run overlay: %w", err)
	}
	return nil
}

// SetStatus shows s.
func (o *Overlay) SetStatus(s types.Status) {
	o.program.Send(statusMsg(s))
}

// Emit updates the transcript and options from a session event.
func (o *Overlay) Emit(e *types.Event) {
	o.program.Send(eventMsg{event: e})
}

// Println prints line above the overlay.
func (o *Overlay) Println(line string) {
	o.program.Println(line)
}

// Quit stops the program and waits for the terminal to be restored.
func (o *Overlay) Quit() {
	o.program.Quit()
	o.program.Wait()
}
