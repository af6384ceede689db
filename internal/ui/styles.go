package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#F5A623")
	danger  = lipgloss.Color("9")
	success = lipgloss.Color("10")
	muted   = lipgloss.Color("8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(accent)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(accent)

	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(success)
	errorStyle   = lipgloss.NewStyle().Foreground(danger)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(danger).
			Foreground(danger).
			Padding(0, 1)

	particleStyle = lipgloss.NewStyle().Foreground(accent).Faint(true)
)

// tierColor maps a catalog color tag to a terminal color.
func tierColor(tag string) lipgloss.Color {
	switch tag {
	case "emerald":
		return lipgloss.Color("#2ECC71")
	case "amber":
		return lipgloss.Color("#F5A623")
	case "crimson":
		return lipgloss.Color("#E74C3C")
	case "violet":
		return lipgloss.Color("#9B59B6")
	default:
		return accent
	}
}
