package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles the selector renders with.
type Styles struct {
	Title  lipgloss.Style
	Normal lipgloss.Style
	Muted  lipgloss.Style
	Cursor lipgloss.Style
	Chosen lipgloss.Style
	Help   lipgloss.Style
	Empty  lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() *Styles {
	primary := lipgloss.Color("#4285F4")
	muted := lipgloss.Color("#6C7086")

	return &Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1),
		Normal: lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(muted),
		Cursor: lipgloss.NewStyle().Bold(true).Foreground(primary),
		Chosen: lipgloss.NewStyle().Foreground(lipgloss.Color("#34A853")),
		Help:   lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Empty:  lipgloss.NewStyle().Italic(true).Foreground(muted),
	}
}
