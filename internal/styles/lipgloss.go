package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme   Theme
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// ForTheme builds styles for a named theme, falling back to the default.
// With color disabled every style renders plain text.
func ForTheme(name string, color bool) Styles {
	if !color {
		return Plain()
	}
	theme, ok := Themes[name]
	if !ok {
		theme = DefaultTheme
	}
	return BuildStyles(theme)
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens

	return Styles{
		Theme:   theme,
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)).Bold(true),
	}
}

// Plain returns unstyled styles for pipes and files.
func Plain() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Theme:   DefaultTheme,
		Title:   plain,
		Muted:   plain,
		Accent:  plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
	}
}
