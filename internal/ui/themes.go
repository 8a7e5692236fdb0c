package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
}

func color(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Available themes
var (
	DefaultTheme = Theme{
		Name:      "default",
		Primary:   color("#1E40AF", "#3B82F6"),
		Secondary: color("#6B7280", "#9CA3AF"),
		Accent:    color("#7C3AED", "#A855F7"),
		Success:   color("#059669", "#10B981"),
		Error:     color("#DC2626", "#EF4444"),
		Border:    color("#D1D5DB", "#374151"),
		Muted:     color("#6B7280", "#9CA3AF"),
		Selected:  color("#DBEAFE", "#1E3A8A"),
	}

	HighContrastTheme = Theme{
		Name:      "high-contrast",
		Primary:   color("#000000", "#FFFFFF"),
		Secondary: color("#666666", "#BBBBBB"),
		Accent:    color("#000080", "#8080FF"),
		Success:   color("#006600", "#00FF00"),
		Error:     color("#CC0000", "#FF4444"),
		Border:    color("#000000", "#FFFFFF"),
		Muted:     color("#666666", "#BBBBBB"),
		Selected:  color("#CCCCCC", "#333333"),
	}

	MinimalTheme = Theme{
		Name:      "minimal",
		Primary:   color("#2D3748", "#E2E8F0"),
		Secondary: color("#718096", "#A0AEC0"),
		Accent:    color("#4A5568", "#CBD5E0"),
		Success:   color("#2F855A", "#68D391"),
		Error:     color("#C53030", "#FC8181"),
		Border:    color("#E2E8F0", "#2D3748"),
		Muted:     color("#A0AEC0", "#718096"),
		Selected:  color("#EDF2F7", "#2D3748"),
	}
)

// ThemeByName returns the named theme, or false for an unknown name
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "default":
		return DefaultTheme, true
	case "high-contrast":
		return HighContrastTheme, true
	case "minimal":
		return MinimalTheme, true
	default:
		return Theme{}, false
	}
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles contains the styled pieces of every screen
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style

	Input    lipgloss.Style
	ErrorBox lipgloss.Style
	Feature  lipgloss.Style
	Sidebar  lipgloss.Style
	Header   lipgloss.Style
}

// NewStyles builds the styles for theme
func NewStyles(theme Theme) *Styles {
	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Accent: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		ErrorBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Error).
			Foreground(theme.Error).
			Padding(0, 1),

		Feature: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Width(26),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(theme.Border).
			PaddingRight(1),

		Header: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(theme.Border),
	}
}
