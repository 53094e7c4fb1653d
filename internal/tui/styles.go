package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Warm accents on a neutral ground; adaptive where the terminal
// background matters.
var (
	colorPrimary   = lipgloss.Color("#D08C3C")
	colorSecondary = lipgloss.Color("#5FA8A0")
	colorAccent    = lipgloss.Color("#C9645A")
	colorMuted     = lipgloss.AdaptiveColor{Light: "#8A8178", Dark: "#7A7268"}
	colorSuccess   = lipgloss.Color("#8DB360")
	colorWarning   = lipgloss.Color("#E3B04B")
	colorError     = lipgloss.Color("#D9534F")
	colorFg        = lipgloss.AdaptiveColor{Light: "#2B2622", Dark: "#E8DFD3"}
	colorSubtle    = lipgloss.AdaptiveColor{Light: "#D6CEC4", Dark: "#4A433C"}
	colorHighlight = lipgloss.Color("#7FA7C9")
)

// taskColors cycles through the rows of a week in the chart and legend.
var taskColors = []lipgloss.Color{
	colorPrimary,
	colorSecondary,
	colorAccent,
	colorWarning,
	colorHighlight,
	colorSuccess,
	lipgloss.Color("#A88BC4"),
	lipgloss.Color("#B5895B"),
}

func taskColor(i int) lipgloss.Color {
	return taskColors[i%len(taskColors)]
}

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boxed(border lipgloss.TerminalColor, vpad int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(vpad, 2)
}

func clockStyle(c lipgloss.TerminalColor) lipgloss.Style {
	return fg(c).Bold(true).Align(lipgloss.Center)
}

var (
	activeTabStyle = fg(colorPrimary).
			Bold(true).
			Border(lipgloss.ThickBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = fg(colorMuted).Padding(0, 2)

	panelStyle       = boxed(colorSubtle, 1)
	activePanelStyle = boxed(colorPrimary, 1)
	errorPanelStyle  = boxed(colorError, 0)

	timerStyle        = clockStyle(colorFg)
	timerRunningStyle = clockStyle(colorSuccess)
	timerPendingStyle = clockStyle(colorWarning)

	titleStyle     = fg(colorFg).Bold(true)
	subtitleStyle  = fg(colorMuted).Italic(true)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError).Bold(true)
	mutedStyle     = fg(colorMuted)
	highlightStyle = fg(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = fg(colorMuted).Padding(0, 1)

	selectedItemStyle = fg(colorPrimary).Bold(true)
	normalItemStyle   = fg(colorFg)

	// week grid
	gridHeaderStyle   = fg(colorMuted).Bold(true).Underline(true)
	totalsRowStyle    = fg(colorHighlight).Bold(true)
	joinTargetStyle   = fg(colorWarning).Bold(true)
	selectedCellStyle = lipgloss.NewStyle().Reverse(true)
)
