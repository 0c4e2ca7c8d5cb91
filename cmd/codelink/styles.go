package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	dark "github.com/thiagokokada/dark-mode-go"
)

// Styles for human-readable output. Adapted to the detected light or dark
// background; both palettes stay readable when the profile degrades to
// ANSI.
var (
	nameStyle   lipgloss.Style
	pathStyle   lipgloss.Style
	dimStyle    lipgloss.Style
	headerStyle lipgloss.Style
)

func initStyles() {
	if isDarkBackground() {
		nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
		return
	}
	nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0"))
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
}

// isDarkBackground asks the OS for the current theme, defaulting to dark
// (the safer guess for terminals) when detection is unsupported.
func isDarkBackground() bool {
	if isDark, err := dark.IsDarkMode(); err == nil {
		return isDark
	}
	return true
}

// truncateCell shortens a table cell to the given display width,
// accounting for wide runes.
func truncateCell(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// padCell pads a table cell to the given display width.
func padCell(s string, width int) string {
	return runewidth.FillRight(truncateCell(s, width), width)
}
