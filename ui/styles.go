package ui

import "github.com/charmbracelet/lipgloss"

var (
	fuchsia = lipgloss.Color("#EE6FF8")
	gray    = lipgloss.Color("#888888")
	midGray = lipgloss.Color("#4A4A4A")
	red     = lipgloss.Color("#ED567A")
	yellow  = lipgloss.Color("#ECFD65")
	green   = lipgloss.Color("#04B575")

	wordStyle  = lipgloss.NewStyle().Bold(true)
	focusStyle = lipgloss.NewStyle().Bold(true).Foreground(fuchsia)
	guideStyle = lipgloss.NewStyle().Foreground(midGray)

	titleStyle  = lipgloss.NewStyle().Foreground(gray)
	subtleStyle = lipgloss.NewStyle().Foreground(midGray)

	statusPlayingStyle = lipgloss.NewStyle().Foreground(green)
	statusPausedStyle  = lipgloss.NewStyle().Foreground(yellow)
	statusStarvedStyle = lipgloss.NewStyle().Foreground(gray)

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1F1F1")).
			Background(red).
			Padding(0, 1)

	statusMessageStyle = lipgloss.NewStyle().Foreground(green)
)
