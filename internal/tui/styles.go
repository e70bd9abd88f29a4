package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#E91E63")
	muted       = lipgloss.Color("#8A8F98")
	destructive = lipgloss.Color("#E53935")
	success     = lipgloss.Color("#8BC34A")
)

// Styles groups the lipgloss styles of the questionnaire screens
type Styles struct {
	Title    lipgloss.Style
	Progress lipgloss.Style
	Question lipgloss.Style
	Option   lipgloss.Style
	Focused  lipgloss.Style
	Chosen   lipgloss.Style
	Track    lipgloss.Style
	Handle   lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
}

// DefaultStyles returns the standard palette
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Progress: lipgloss.NewStyle().Foreground(muted),
		Question: lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Option:   lipgloss.NewStyle().PaddingLeft(2),
		Focused:  lipgloss.NewStyle().PaddingLeft(2).Foreground(accent).Bold(true),
		Chosen:   lipgloss.NewStyle().PaddingLeft(2).Foreground(success),
		Track:    lipgloss.NewStyle().Foreground(muted),
		Handle:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Error:    lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Success:  lipgloss.NewStyle().Foreground(success).Bold(true),
	}
}
