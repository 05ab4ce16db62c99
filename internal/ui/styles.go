package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Centralized lipgloss styles for the CLI and TUI output.

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	flaggedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	improvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				MarginBottom(1)
)

// colorEnabled reports whether the terminal can render the styled output.
var colorEnabled = termenv.ColorProfile() != termenv.Ascii

// Flagged renders s in the alert style when color is available.
func Flagged(s string) string {
	if !colorEnabled {
		return s
	}
	return flaggedStyle.Render(s)
}

// Improved renders s in the improvement style when color is available.
func Improved(s string) string {
	if !colorEnabled {
		return s
	}
	return improvedStyle.Render(s)
}

// Dim renders s de-emphasized when color is available.
func Dim(s string) string {
	if !colorEnabled {
		return s
	}
	return dimStyle.Render(s)
}

// Title renders a section title.
func Title(s string) string {
	if !colorEnabled {
		return s
	}
	return titleStyle.Render(s)
}
