package feedback

import "github.com/charmbracelet/lipgloss"

// Color Palette
var (
	salmonPink = lipgloss.Color("#FFB3BA") // failures
	mintGreen  = lipgloss.Color("#A8E6CF") // spoken confirmations
	mutedGray  = lipgloss.Color("#6B7280") // console-only listings
)

var (
	sayStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	printStyle = lipgloss.NewStyle().
			Foreground(mutedGray)
)
