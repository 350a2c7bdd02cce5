package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/voicenav/pkg/types"
)

// statusMsg carries a status transition from the session goroutine.
type statusMsg types.Status

// eventMsg carries a session event from the session goroutine.
type eventMsg struct {
	event *types.Event
}

// model is the overlay state. It only ever changes inside Update, on the
// program goroutine.
type model struct {
	spinner spinner.Model
	status  types.Status
	heard   string
	problem string
	options []string
	width   int
}

func newModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return model{
		spinner: s,
		status:  types.StatusReady,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = types.Status(msg)
		return m, nil
	case eventMsg:
		m.apply(msg.event)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) apply(e *types.Event) {
	if e == nil {
		return
	}
	switch e.Type {
	case types.EventTypeHeard:
		m.heard = e.Transcript
		m.problem = ""
	case types.EventTypeUnintelligible:
		m.problem = "Did not catch that"
	case types.EventTypeServiceUnavailable:
		m.problem = "Speech service unavailable"
	case types.EventTypeError:
		m.problem = fmt.Sprintf("%q failed", e.Transcript)
	case types.EventTypeChoiceRequest:
		m.options = e.Options
	case types.EventTypeCommandComplete:
		m.options = nil
	}
}

func (m model) View() string {
	var b strings.Builder

	badge := string(m.status)
	if m.status.Active() {
		badge = m.spinner.View() + " " + badge
	}
	b.WriteString(statusStyle.Background(statusColor(m.status)).Render(badge))

	if m.heard != "" {
		b.WriteString("  ")
		b.WriteString(heardStyle.Render(fmt.Sprintf("heard: %q", m.heard)))
	}
	if m.problem != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.problem))
	}
	for i, opt := range m.options {
		b.WriteString("\n")
		b.WriteString(optionStyle.Render(fmt.Sprintf("  %d. %s", i+1, opt)))
	}
	b.WriteString("\n")
	return b.String()
}
