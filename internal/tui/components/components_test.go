package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/view"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHeader(t *testing.T) {
	h := NewHeader("Tech", func() bool { return true })
	if !h.Animating() {
		t.Fatal("header should start animating")
	}
	if got := h.View(); !strings.Contains(got, "1111") {
		t.Errorf("first frame should be scrambled, got %q", got)
	}

	for h.Tick() {
	}
	h.SetCounts(3, 8, "ja")
	got := h.View()
	for _, want := range []string{"Tech", "3 of 8", "search:", "ja"} {
		if !strings.Contains(got, want) {
			t.Errorf("View() missing %q in %q", want, got)
		}
	}
	if h.Animating() {
		t.Error("animation should be finished")
	}
}

func TestSearchBox(t *testing.T) {
	s := NewSearchBox("Search")

	if changed, _ := s.Update(keyRunes("j")); changed {
		t.Error("unfocused box should ignore input")
	}

	s.Focus()
	changed, _ := s.Update(keyRunes("j"))
	if !changed || s.Value() != "j" {
		t.Errorf("Value() = %q, changed = %v", s.Value(), changed)
	}

	s.SetSuggestions([]string{"Java", "JavaScript", "Jai"})
	if _, ok := s.Selected(); ok {
		t.Error("new suggestions should have no selection")
	}

	s.MoveUp()
	if _, ok := s.Selected(); ok {
		t.Error("MoveUp without selection should do nothing")
	}
	s.MoveDown()
	s.MoveDown()
	s.MoveDown()
	s.MoveDown()
	if got, _ := s.Selected(); got != "Jai" {
		t.Errorf("Selected() = %q, want Jai", got)
	}
	s.MoveUp()
	if got, _ := s.Selected(); got != "JavaScript" {
		t.Errorf("Selected() = %q, want JavaScript", got)
	}

	view := s.View()
	if !strings.Contains(view, "› JavaScript") {
		t.Errorf("selected suggestion not highlighted:\n%s", view)
	}

	s.ClearSelection()
	if _, ok := s.Selected(); ok {
		t.Error("ClearSelection should drop the selection")
	}
}

func testCards(names ...string) []Card {
	cards := make([]Card, len(names))
	for i, n := range names {
		cards[i] = Card{Tech: &catalog.Technology{Name: n, Year: 1990 + i, Level: catalog.LevelHigh}}
	}
	return cards
}

func TestCardList_Navigation(t *testing.T) {
	c := NewCardList()
	c.SetCards(testCards("C", "Go", "Java", "Python", "Rust"))
	c.SetSize(80, 2)

	c.Update(tea.KeyMsg{Type: tea.KeyDown})
	c.Update(keyRunes("j"))
	if got := c.SelectedTech().Name; got != "Java" {
		t.Errorf("SelectedTech() = %q, want Java", got)
	}
	if c.scrollStart != 1 {
		t.Errorf("scrollStart = %d, want 1", c.scrollStart)
	}

	c.Update(keyRunes("G"))
	if c.Selected() != 4 {
		t.Errorf("Selected() = %d, want 4", c.Selected())
	}
	c.Update(keyRunes("g"))
	if c.Selected() != 0 || c.scrollStart != 0 {
		t.Errorf("Selected() = %d, scrollStart = %d", c.Selected(), c.scrollStart)
	}

	if !c.Select("Rust") || c.SelectedTech().Name != "Rust" {
		t.Error("Select(Rust) failed")
	}
	if c.Select("Cobol") {
		t.Error("Select(Cobol) should fail")
	}

	c.SetCards(testCards("C"))
	if c.Selected() != 0 {
		t.Errorf("selection should be clamped, got %d", c.Selected())
	}
}

func TestCardList_View(t *testing.T) {
	c := NewCardList()
	if got := c.View(); !strings.Contains(got, "No technology matches") {
		t.Errorf("empty View() = %q", got)
	}
	if c.SelectedTech() != nil {
		t.Error("empty list should have no selection")
	}

	cards := testCards("C", "Go", "Java", "Python")
	cards[0].Heading = "High level"
	cards[1].Marked = true
	cards[0].Tech.Description = "A systems language."
	c.SetCards(cards)
	c.SetSize(80, 2)
	c.MoveDown()
	c.MoveDown()

	got := c.View()
	for _, want := range []string{"↑ 1 more above", "↓ 1 more below", "★", "Go", "Java"} {
		if !strings.Contains(got, want) {
			t.Errorf("View() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "High level") {
		t.Error("heading of a scrolled-out card should not render")
	}
	if strings.Contains(got, "A systems language.") {
		t.Error("only the selected card is expanded")
	}
}

func TestDialog_Hit(t *testing.T) {
	d := NewDialog()
	d.SetContent("Interpretada", "Runs line by line.")
	d.SetSize(100, 40)
	rendered := d.View()

	lines := strings.Split(rendered, "\n")
	if len(lines) != 40 {
		t.Fatalf("View() has %d lines, want 40", len(lines))
	}

	closeX, closeY := -1, -1
	top, left := -1, -1
	for y, line := range lines {
		if i := strings.Index(line, "╔"); i >= 0 && top < 0 {
			top, left = y, lipgloss.Width(line[:i])
		}
		if i := strings.Index(line, closeLabel); i >= 0 {
			closeX, closeY = lipgloss.Width(line[:i]), y
		}
	}
	if closeY < 0 || top < 0 {
		t.Fatalf("dialog not found in:\n%s", rendered)
	}

	tests := []struct {
		name string
		x, y int
		want view.Target
	}{
		{"screen corner", 0, 0, view.TargetBackdrop},
		{"left of box", left - 1, closeY, view.TargetBackdrop},
		{"above box", closeX, top - 1, view.TargetBackdrop},
		{"box corner", left, top, view.TargetContent},
		{"title text", left + 4, closeY, view.TargetContent},
		{"body", left + 4, closeY + 2, view.TargetContent},
		{"close button start", closeX, closeY, view.TargetCloseButton},
		{"close button end", closeX + 2, closeY, view.TargetCloseButton},
		{"below close button", closeX, closeY + 1, view.TargetContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Hit(tt.x, tt.y); got != tt.want {
				t.Errorf("Hit(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestDialog_LongTitle(t *testing.T) {
	d := NewDialog()
	d.SetContent(strings.Repeat("x", 200), "body")
	d.SetSize(60, 20)
	got := d.View()
	if !strings.Contains(got, "…"+closeLabel) {
		t.Errorf("long title should be truncated before the close button:\n%s", got)
	}
}

func TestSpinner(t *testing.T) {
	s := NewSpinner()
	if s.View() != "" || s.Active() {
		t.Error("spinner should start hidden")
	}
	if cmd := s.Start("Comparing Go and Rust"); cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !strings.Contains(s.View(), "Comparing Go and Rust") {
		t.Errorf("View() = %q", s.View())
	}
	s.Stop()
	if s.Update(nil) != nil {
		t.Error("stopped spinner should not tick")
	}
}

func TestShortcutBar(t *testing.T) {
	bar := NewShortcutBar(CardShortcuts...)
	got := bar.View()
	if !strings.Contains(got, "space") || !strings.Contains(got, "compare") {
		t.Errorf("View() = %q", got)
	}
	bar.SetShortcuts()
	if bar.View() != "" {
		t.Error("empty bar should render nothing")
	}
}

func TestHelpOverlay(t *testing.T) {
	h := NewHelpOverlay()
	if h.View() != "" {
		t.Error("hidden overlay should render nothing")
	}
	h.Show()
	if !strings.Contains(h.View(), "Learning curve") {
		t.Error("help should list the curve dialog key")
	}
	h.Update(keyRunes("x"))
	if h.IsVisible() {
		t.Error("any key should close help")
	}
}
