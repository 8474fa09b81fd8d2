package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	secondaryColor = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
	warningColor   = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}
	errorColor     = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}
	mutedColor     = lipgloss.AdaptiveColor{Light: "#8C8FA1", Dark: "#6C7086"}
	textColor      = lipgloss.AdaptiveColor{Light: "#1E1E2E", Dark: "#CDD6F4"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1)

	activeModeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Bold(true).
			Padding(0, 1)

	modeStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(primaryColor)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(secondaryColor).
				Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(textColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			Padding(0, 1)
)
