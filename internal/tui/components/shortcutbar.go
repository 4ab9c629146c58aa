package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/tui/styles"
)

// ShortcutDef defines a single keyboard shortcut.
type ShortcutDef struct {
	Key  string
	Desc string
}

// ShortcutBar displays the shortcuts valid for the focused area.
type ShortcutBar struct {
	shortcuts []ShortcutDef
	width     int
}

// NewShortcutBar creates a new ShortcutBar with the given shortcuts.
func NewShortcutBar(shortcuts ...ShortcutDef) *ShortcutBar {
	return &ShortcutBar{shortcuts: shortcuts}
}

// SetShortcuts replaces all shortcuts.
func (s *ShortcutBar) SetShortcuts(shortcuts ...ShortcutDef) {
	s.shortcuts = shortcuts
}

// SetWidth sets the bar width.
func (s *ShortcutBar) SetWidth(width int) {
	s.width = width
}

// View renders the shortcut bar.
func (s *ShortcutBar) View() string {
	if len(s.shortcuts) == 0 {
		return ""
	}

	parts := make([]string, len(s.shortcuts))
	for i, sc := range s.shortcuts {
		parts[i] = styles.KeyStyle.Render(sc.Key) + styles.HelpStyle.Render(":"+sc.Desc)
	}
	content := strings.Join(parts, lipgloss.NewStyle().Foreground(styles.Muted).Render(" │ "))

	style := styles.StatusBarStyle
	if s.width > 0 {
		style = style.Width(s.width)
	}
	return style.Render(content)
}

// Shortcut sets for each focus area.
var (
	// SearchShortcuts apply while typing a query.
	SearchShortcuts = []ShortcutDef{
		{"type", "filter"},
		{"↓", "suggestions"},
		{"enter", "cards"},
		{"tab", "next"},
		{"ctrl+c", "quit"},
	}

	// SuggestionShortcuts apply while picking a suggestion.
	SuggestionShortcuts = []ShortcutDef{
		{"↑↓", "select"},
		{"enter", "pick"},
		{"tab", "next"},
		{"esc", "back"},
	}

	// CardShortcuts apply on the card list.
	CardShortcuts = []ShortcutDef{
		{"↑↓", "move"},
		{"e", "execution"},
		{"l", "level"},
		{"c", "curve"},
		{"space", "mark"},
		{"m", "compare"},
		{"/", "search"},
		{"q", "quit"},
	}

	// DialogShortcuts apply while a dialog is open.
	DialogShortcuts = []ShortcutDef{
		{"esc", "close"},
		{"click outside", "close"},
	}
)
