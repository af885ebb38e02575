package cliprompt

import "github.com/charmbracelet/lipgloss"

// Color palette, carried over from the interactive setup wizard this
// package replaces: purple for the brand, green/red for outcome, cyan for
// informational text.
var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorSuccess = lipgloss.Color("#04B575")
	colorError   = lipgloss.Color("#FF4672")
	colorInfo    = lipgloss.Color("#00D9FF")
	colorSubtle  = lipgloss.Color("#777777")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	changeStyle = lipgloss.NewStyle().
			Foreground(colorInfo)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6AD5")).
			Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)
)
