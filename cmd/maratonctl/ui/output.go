package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Colors adapt to the terminal background so output stays readable on
// light themes.
var (
	accent = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}
	good   = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	bad    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(accent)
	okStyle    = lipgloss.NewStyle().Foreground(good)
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(bad)
	labelStyle = lipgloss.NewStyle().Foreground(muted).Width(12)
	valueStyle = lipgloss.NewStyle().Bold(true)
)

// PrintTitle prints an underlined section header
func PrintTitle(title string) {
	fmt.Println(headerStyle.Render(title))
}

// PrintSuccess prints a checkmarked line
func PrintSuccess(msg string) {
	fmt.Println(okStyle.Render("✔ " + msg))
}

// PrintDetail prints one label/value row under a success line
func PrintDetail(key, value string) {
	fmt.Println(detailLine(key, value))
}

// PrintError prints msg marked as a failure
func PrintError(msg string) {
	fmt.Println(failStyle.Render("✘ " + msg))
}

func detailLine(key, value string) string {
	return "  " + labelStyle.Render(key) + valueStyle.Render(value)
}
