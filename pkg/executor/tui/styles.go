package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/voicenav/pkg/types"
)

// Color Palette
// This is the single source of truth for all overlay colors.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // Soft pastel salmon pink - primary accent
	mutedGray   = lipgloss.Color("#6B7280") // Muted gray - secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // Bright white - primary text

	listeningTeal    = lipgloss.Color("#1abc9c") // Listening - capturing an utterance
	processingOrange = lipgloss.Color("#f39c12") // Processing - resolving a command
	readyCharcoal    = lipgloss.Color("#333333") // Ready - idle between commands
)

var (
	// statusStyle is the base of the status badge; the background follows
	// the current status.
	statusStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Bold(true).
			Padding(0, 2)

	heardStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	optionStyle = lipgloss.NewStyle().
			Foreground(brightWhite)
)

// statusColor returns the badge background for s.
func statusColor(s types.Status) lipgloss.Color {
	switch s {
	case types.StatusListening:
		return listeningTeal
	case types.StatusProcessing:
		return processingOrange
	default:
		return readyCharcoal
	}
}
