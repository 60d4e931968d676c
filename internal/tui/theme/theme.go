package theme

import "github.com/charmbracelet/lipgloss"

// Colors holds the shared color palette used across the TUI.
type Colors struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
}

// Theme centralizes palette and style configuration.
type Theme struct {
	colors Colors
}

// Default returns the standard theme.
func Default() Theme {
	return Theme{
		colors: Colors{
			Primary:   lipgloss.Color("99"),
			Secondary: lipgloss.Color("63"),
			Accent:    lipgloss.Color("212"),
			Muted:     lipgloss.Color("241"),
			Success:   lipgloss.Color("42"),
			Error:     lipgloss.Color("196"),
		},
	}
}

// Colors exposes the palette.
func (t Theme) Colors() Colors {
	return t.colors
}

// HeaderStyle renders the screen title bar.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(t.colors.Primary).
		Padding(0, 1)
}

// StatusBarStyle renders the bottom help/status line.
func (t Theme) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.colors.Muted).
		Padding(0, 1)
}

// PanelStyle renders a bordered content panel.
func (t Theme) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.colors.Secondary)
}

// SelectedStyle highlights the focused row or field.
func (t Theme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(t.colors.Accent)
}

// DirtyStyle marks entities with pending edits.
func (t Theme) DirtyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Success)
}

// ErrorStyle renders error messages.
func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Error)
}

// MutedStyle renders secondary text.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Muted)
}
