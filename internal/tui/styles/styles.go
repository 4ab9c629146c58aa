// Package styles provides Lip Gloss styles shared by the techcat terminal
// front ends.
package styles

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	Primary     = lipgloss.Color("#6366F1") // Indigo
	Secondary   = lipgloss.Color("#06B6D4") // Cyan
	Success     = lipgloss.Color("#10B981") // Green
	Warning     = lipgloss.Color("#F59E0B") // Amber
	Error       = lipgloss.Color("#EF4444") // Red
	Muted       = lipgloss.Color("#6B7280") // Gray
	MutedLight  = lipgloss.Color("#9CA3AF") // Light Gray
	Background  = lipgloss.Color("#1E293B") // Slate
	Foreground  = lipgloss.Color("#F8FAFC") // White
	BorderColor = lipgloss.Color("#374151") // Border Gray
)

// Header styles.
var (
	// TitleStyle is for the application title.
	TitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	// HeaderLabelStyle is for header labels.
	HeaderLabelStyle = lipgloss.NewStyle().
				Foreground(MutedLight)

	// SectionStyle is for headings inside a view, like level groups.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)
)

// Box styles.
var (
	// BoxStyle is a standard box with border.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// FocusedBoxStyle is a box that's currently focused.
	FocusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	// DialogStyle frames an open dialog.
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Secondary).
			Padding(1, 2)
)

// Card styles.
var (
	// CardNameStyle is the technology name on a card.
	CardNameStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Bold(true)

	// TagStyle renders one tag chip.
	TagStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(BorderColor).
			Padding(0, 1)

	// MarkStyle flags a card picked for comparison.
	MarkStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	// SuggestionStyle is an autocomplete entry.
	SuggestionStyle = lipgloss.NewStyle().
			Foreground(MutedLight).
			PaddingLeft(2)

	// SuggestionSelectedStyle is the highlighted autocomplete entry.
	SuggestionSelectedStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Primary).
				PaddingLeft(2)
)

// Text styles.
var (
	// MutedTextStyle is for de-emphasized text.
	MutedTextStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorTextStyle is for error messages.
	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(Error)

	// SuccessTextStyle is for success messages.
	SuccessTextStyle = lipgloss.NewStyle().
				Foreground(Success)

	// WarningTextStyle is for warning messages.
	WarningTextStyle = lipgloss.NewStyle().
				Foreground(Warning)

	// BoldStyle renders emphasis from model answers.
	BoldStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)
)

// Status bar styles.
var (
	// StatusBarStyle is the main status bar container.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedLight).
			Padding(0, 1)

	// KeyStyle is for keyboard shortcut keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// HelpStyle is for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// Menu styles.
var (
	// MenuNumberStyle is the number in front of a menu option.
	MenuNumberStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// PromptStyle is a question asked on standard input.
	PromptStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// LabelStyle is a field label in the detail view.
	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedLight).
			Bold(true)

	// RuleStyle draws separator lines.
	RuleStyle = lipgloss.NewStyle().
			Foreground(BorderColor)
)

// Level returns a foreground style in a level's terminal color. An empty
// color falls back to the muted text style.
func Level(color string) lipgloss.Style {
	if color == "" {
		return MutedTextStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

var boldTag = regexp.MustCompile(`(?s)<b>(.*?)</b>`)

// Emphasize renders the <b> spans of a model answer with bold and drops
// the tags.
func Emphasize(text string, bold lipgloss.Style) string {
	return boldTag.ReplaceAllStringFunc(text, func(m string) string {
		return bold.Render(boldTag.FindStringSubmatch(m)[1])
	})
}
