package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/tui/styles"
)

// ShortcutGroup is a titled set of shortcuts in the help overlay.
type ShortcutGroup struct {
	Title     string
	Shortcuts []ShortcutDef
}

// HelpOverlay lists every key binding of the browser.
type HelpOverlay struct {
	visible bool
	groups  []ShortcutGroup
}

// NewHelpOverlay creates a hidden help overlay.
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{
		groups: []ShortcutGroup{
			{
				Title: "Search",
				Shortcuts: []ShortcutDef{
					{"/", "Focus the search box"},
					{"↓", "Pick from suggestions"},
					{"tab", "Next area"},
				},
			},
			{
				Title: "Cards",
				Shortcuts: []ShortcutDef{
					{"j/↓", "Move down"},
					{"k/↑", "Move up"},
					{"e", "Execution type"},
					{"l", "Abstraction level"},
					{"c", "Learning curve"},
				},
			},
			{
				Title: "Compare",
				Shortcuts: []ShortcutDef{
					{"space", "Mark a card (up to 2)"},
					{"m", "Compare marked cards"},
					{"esc", "Cancel a comparison"},
				},
			},
			{
				Title: "General",
				Shortcuts: []ShortcutDef{
					{"?", "Toggle help"},
					{"q", "Quit"},
				},
			},
		},
	}
}

// Show makes the overlay visible.
func (h *HelpOverlay) Show() {
	h.visible = true
}

// Hide hides the overlay.
func (h *HelpOverlay) Hide() {
	h.visible = false
}

// IsVisible returns whether the overlay is visible.
func (h *HelpOverlay) IsVisible() bool {
	return h.visible
}

// Update closes the overlay on any key.
func (h *HelpOverlay) Update(msg tea.Msg) tea.Cmd {
	if !h.visible {
		return nil
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		h.Hide()
	}
	return nil
}

// View renders the help overlay.
func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Bold(true).
		Width(8)
	descStyle := lipgloss.NewStyle().Foreground(styles.MutedLight)
	groupStyle := lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true)

	for _, group := range h.groups {
		b.WriteString(groupStyle.Render(group.Title))
		b.WriteString("\n")
		for _, sc := range group.Shortcuts {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(sc.Key))
			b.WriteString(" ")
			b.WriteString(descStyle.Render(sc.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render("Press any key to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(styles.Primary).
		Padding(1, 2).
		Render(b.String())
}
