// Package ui implements the terminal dashboard: list pages with filters and
// pagination, create/edit forms, the trash/restore workflow, the search
// overlay and the notification feed view.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, identical in both themes.
var (
	colorDestructive = lipgloss.Color("#e53935")
	colorSuccess     = lipgloss.Color("#66bb6a")
	colorWarning     = lipgloss.Color("#FFC107")
	colorInfo        = lipgloss.Color("#2196F3")
)

// Theme holds one color scheme. The flag persisted in the state file picks
// which one is active.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#1b262c"),
		Primary:    lipgloss.Color("#2e7d32"),
		Accent:     lipgloss.Color("#8BC34A"),
		Secondary:  lipgloss.Color("#e1e4e8"),
		Muted:      lipgloss.Color("#6b7b8c"),
		Border:     lipgloss.Color("#c4ccd4"),
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#e8ecef"),
		Primary:    lipgloss.Color("#8BC34A"),
		Accent:     lipgloss.Color("#aed581"),
		Secondary:  lipgloss.Color("#1e2a3d"),
		Muted:      lipgloss.Color("#5c6b7a"),
		Border:     lipgloss.Color("#2a3850"),
		IsDark:     true,
	}
}

// ThemeByName maps the persisted theme flag to a Theme, defaulting to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles bundles every lipgloss style the dashboard renders with.
type Styles struct {
	Theme Theme

	Title  lipgloss.Style
	Body   lipgloss.Style
	Bold   lipgloss.Style
	Muted  lipgloss.Style
	Danger lipgloss.Style

	Card      lipgloss.Style
	CardTitle lipgloss.Style
	CardValue lipgloss.Style

	Modal      lipgloss.Style
	ModalTitle lipgloss.Style

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	Highlight lipgloss.Style
	Selected  lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style

	InputLabel lipgloss.Style
	FieldError lipgloss.Style
	TabActive  lipgloss.Style
	Tab        lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,

		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Body:   lipgloss.NewStyle().Foreground(t.Foreground),
		Bold:   lipgloss.NewStyle().Bold(true).Foreground(t.Foreground),
		Muted:  lipgloss.NewStyle().Foreground(t.Muted),
		Danger: lipgloss.NewStyle().Bold(true).Foreground(colorDestructive),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),
		CardTitle: lipgloss.NewStyle().Foreground(t.Muted),
		CardValue: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Primary).
			Padding(1, 3),
		ModalTitle: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),

		ToastInfo:    lipgloss.NewStyle().Foreground(colorInfo),
		ToastSuccess: lipgloss.NewStyle().Foreground(colorSuccess),
		ToastError:   lipgloss.NewStyle().Bold(true).Foreground(colorDestructive),

		Highlight: lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Underline(true),
		Selected:  lipgloss.NewStyle().Bold(true).Background(t.Secondary).Foreground(t.Foreground),
		StatusBar: lipgloss.NewStyle().Foreground(t.Muted),
		Help:      lipgloss.NewStyle().Foreground(t.Muted),

		InputLabel: lipgloss.NewStyle().Foreground(t.Muted),
		FieldError: lipgloss.NewStyle().Foreground(colorDestructive),
		TabActive:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Underline(true),
		Tab:        lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// DefaultStyles returns the dark style set, used by tests and as the
// fallback before the state file is read.
func DefaultStyles() Styles {
	return NewStyles(DarkTheme())
}

// warningStyle is only used by the confirm step of the trash view.
var warningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
