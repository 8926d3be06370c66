package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	red    = lipgloss.AdaptiveColor{Light: "#FE5F86", Dark: "#FE5F86"}
	indigo = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	green  = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"}
	gray   = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#BDBDBD"}
)

var (
	cardStyle = lipgloss.NewStyle().
			BorderForeground(indigo).
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(indigo).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(gray).
			Width(22)

	clauseStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	excerptStyle = lipgloss.NewStyle().
			Foreground(gray).
			Italic(true).
			PaddingLeft(2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(indigo).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)
)
