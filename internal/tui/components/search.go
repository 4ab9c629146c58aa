package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/tui/styles"
)

// SearchBox is a text input with an autocomplete list below it.
type SearchBox struct {
	model       textinput.Model
	label       string
	suggestions []string
	selected    int
	focused     bool
	width       int
}

// NewSearchBox creates a new SearchBox component.
func NewSearchBox(label string) *SearchBox {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Search by name..."
	ti.CharLimit = 64
	ti.Width = 30

	return &SearchBox{
		model:    ti,
		label:    label,
		selected: -1,
	}
}

// Focus focuses the text input.
func (s *SearchBox) Focus() tea.Cmd {
	s.focused = true
	return s.model.Focus()
}

// Blur removes focus from the text input.
func (s *SearchBox) Blur() {
	s.focused = false
	s.model.Blur()
}

// Focused returns whether the text input is focused.
func (s *SearchBox) Focused() bool {
	return s.focused
}

// Value returns the current query.
func (s *SearchBox) Value() string {
	return s.model.Value()
}

// SetValue replaces the query and moves the cursor to its end.
func (s *SearchBox) SetValue(value string) {
	s.model.SetValue(value)
	s.model.CursorEnd()
}

// SetWidth sets the width of the search box.
func (s *SearchBox) SetWidth(width int) {
	s.width = width
	s.model.Width = max(width-len(s.label)-5, 10)
}

// SetSuggestions replaces the autocomplete list and clears the selection.
func (s *SearchBox) SetSuggestions(names []string) {
	s.suggestions = names
	s.selected = -1
}

// Suggestions returns the autocomplete list.
func (s *SearchBox) Suggestions() []string {
	return s.suggestions
}

// MoveDown selects the next suggestion, starting from the first.
func (s *SearchBox) MoveDown() {
	if s.selected < len(s.suggestions)-1 {
		s.selected++
	}
}

// MoveUp selects the previous suggestion.
func (s *SearchBox) MoveUp() {
	if s.selected > 0 {
		s.selected--
	}
}

// ClearSelection leaves the suggestion list without a selection.
func (s *SearchBox) ClearSelection() {
	s.selected = -1
}

// Selected returns the highlighted suggestion.
func (s *SearchBox) Selected() (string, bool) {
	if s.selected < 0 || s.selected >= len(s.suggestions) {
		return "", false
	}
	return s.suggestions[s.selected], true
}

// Update passes messages to the text input while it has focus and reports
// whether the query changed.
func (s *SearchBox) Update(msg tea.Msg) (bool, tea.Cmd) {
	if !s.focused {
		return false, nil
	}
	before := s.model.Value()
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s.model.Value() != before, cmd
}

// View renders the input line followed by the suggestions.
func (s *SearchBox) View() string {
	labelStyle := styles.HeaderLabelStyle
	inputStyle := lipgloss.NewStyle().Foreground(styles.MutedLight).Padding(0, 1)
	if s.focused {
		labelStyle = lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true)
		inputStyle = lipgloss.NewStyle().
			Foreground(styles.Foreground).
			Background(styles.Background).
			Padding(0, 1)
	}

	lines := []string{labelStyle.Render(s.label+": ") + inputStyle.Render(s.model.View())}
	for i, name := range s.suggestions {
		if i == s.selected {
			lines = append(lines, styles.SuggestionSelectedStyle.Render("› "+name))
		} else {
			lines = append(lines, styles.SuggestionStyle.Render("  "+name))
		}
	}
	return strings.Join(lines, "\n")
}
