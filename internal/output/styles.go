package output

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
//
//nolint:gochecknoglobals // styles are immutable after init
var (
	colorCritical = lipgloss.Color("#FF5252")
	colorLate     = lipgloss.Color("#FFD700")
	colorEarly    = lipgloss.Color("#00E676")
	colorMuted    = lipgloss.Color("#8C8C8C")
	colorHeading  = lipgloss.Color("#00BFFF")
)

//nolint:gochecknoglobals // styles are immutable after init
var (
	styleHeading = lipgloss.NewStyle().
			Foreground(colorHeading).
			Bold(true)

	styleCritical = lipgloss.NewStyle().
			Foreground(colorCritical).
			Bold(true)

	styleLate = lipgloss.NewStyle().
			Foreground(colorLate)

	styleEarly = lipgloss.NewStyle().
			Foreground(colorEarly)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)
)
