package style

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	Gray       = lipgloss.Color("240")
	PaleYellow = lipgloss.Color("229")
	NeonPurple = lipgloss.Color("57")
	Lilac      = lipgloss.Color("105")

	green  = lipgloss.Color("28")
	yellow = lipgloss.Color("178")
	red    = lipgloss.Color("160")
	maroon = lipgloss.Color("88")
	white  = lipgloss.Color("255")
)

var (
	HorizontalPadding = 1

	Main = lipgloss.NewStyle().Margin(1, 0).Padding(0, HorizontalPadding)

	TableContainer = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(Gray)

	Table = table.Styles{
		Selected: lipgloss.NewStyle().Bold(true).Foreground(PaleYellow).Background(NeonPurple),
		Header:   lipgloss.NewStyle().Bold(false).Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).BorderForeground(Gray).BorderBottom(true),
		Cell:     lipgloss.NewStyle().Padding(0, 1),
	}

	Help = lipgloss.NewStyle().Foreground(Lilac)

	Faint = lipgloss.NewStyle().Foreground(Gray)

	FieldError = lipgloss.NewStyle().Foreground(red)

	Viewer = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(Gray).Padding(0, 2)

	Error = lipgloss.NewStyle().
		Bold(true).
		Width(64).
		Foreground(lipgloss.AdaptiveColor{Light: "#E11C9C", Dark: "#FF62DA"}).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "#E11C9C", Dark: "#FF62DA"}).
		Padding(1, 3, 1, 3)

	badge = lipgloss.NewStyle().Bold(true).Foreground(white).Padding(0, 1)

	neutralBadge = badge.Copy().Background(Gray)

	severityBadges = map[string]lipgloss.Style{
		"low":      badge.Copy().Background(green),
		"medium":   badge.Copy().Background(yellow),
		"high":     badge.Copy().Background(red),
		"critical": badge.Copy().Background(maroon),
	}

	statusBadges = map[string]lipgloss.Style{
		"open":        badge.Copy().Background(red),
		"in_progress": badge.Copy().Background(yellow),
		"resolved":    badge.Copy().Background(green),
		"closed":      badge.Copy().Background(Gray),
	}
)

// SeverityBadge renders a severity label with its category color. The
// lookup is case-insensitive and total: unrecognized values render with the
// neutral badge instead of failing.
func SeverityBadge(severity string) string {
	s, ok := severityBadges[strings.ToLower(severity)]
	if !ok {
		s = neutralBadge
	}
	return s.Render(severity)
}

// StatusBadge renders a status label, underscores replaced for display.
// Total over arbitrary input, same as SeverityBadge.
func StatusBadge(status string) string {
	s, ok := statusBadges[strings.ToLower(status)]
	if !ok {
		s = neutralBadge
	}
	return s.Render(strings.ReplaceAll(status, "_", " "))
}
