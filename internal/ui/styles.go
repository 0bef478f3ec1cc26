// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/clipkeep/internal/config"
	"github.com/nhath/clipkeep/internal/ui/components/cliplist"
)

var (
	textPrimary    lipgloss.Color
	textSecondary  lipgloss.Color
	textFaint      lipgloss.Color
	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color
	bgPrimary      lipgloss.Color
	bgSecondary    lipgloss.Color
	cardBg         lipgloss.Color

	// Styles
	StatusBarStyle     lipgloss.Style
	ModeStyle          lipgloss.Style
	HiddenModeStyle    lipgloss.Style
	MetaStyle          lipgloss.Style
	PromptStyle        lipgloss.Style
	InputStyle         lipgloss.Style
	SuccessStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	SystemMessageStyle lipgloss.Style
	DetailStyle        lipgloss.Style
	TitleStyle         lipgloss.Style
)

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)
	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)
	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	cardBg = lipgloss.Color(theme.CardBg)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	ModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgPrimary)

	HiddenModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(cardBg).
		Foreground(textPrimary)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	PromptStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		MarginRight(1)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(textFaint)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	SystemMessageStyle = lipgloss.NewStyle().
		Foreground(highlightColor).
		Bold(true)

	DetailStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(textSecondary)
}

// listStyles derives the list component palette from the theme.
func listStyles() cliplist.Styles {
	s := cliplist.DefaultStyles()
	s.Selected = s.Selected.Background(bgSecondary)
	s.Marker = s.Marker.Foreground(successColor)
	s.Meta = s.Meta.Foreground(textFaint)
	s.Sensitive = s.Sensitive.Foreground(warningColor)
	s.Empty = s.Empty.Foreground(textFaint)
	return s
}
