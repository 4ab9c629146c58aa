package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/tui/styles"
)

// Card is one technology in the list.
type Card struct {
	Tech *catalog.Technology
	// Heading starts a new level group above this card when non-empty.
	Heading string
	// Color is the terminal color of the card's level.
	Color  string
	Marked bool
}

// CardList is a scrollable list of technology cards. The selected card is
// expanded to show its description and trivia.
type CardList struct {
	cards       []Card
	selected    int
	height      int
	width       int
	scrollStart int
	focused     bool
}

// NewCardList creates a new CardList component.
func NewCardList() *CardList {
	return &CardList{height: 10}
}

// SetCards replaces the cards, keeping the selection in range.
func (c *CardList) SetCards(cards []Card) {
	c.cards = cards
	if c.selected >= len(cards) {
		c.selected = len(cards) - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
	c.updateScroll()
}

// Cards returns the cards in display order.
func (c *CardList) Cards() []Card {
	return c.cards
}

// Len returns the number of cards.
func (c *CardList) Len() int {
	return len(c.cards)
}

// SetSize sets both width and height. Height counts cards, not lines.
func (c *CardList) SetSize(width, height int) {
	c.width = width
	c.height = max(height, 1)
	c.updateScroll()
}

// SetFocused sets whether the list is focused.
func (c *CardList) SetFocused(focused bool) {
	c.focused = focused
}

// Selected returns the selected card index.
func (c *CardList) Selected() int {
	return c.selected
}

// SelectedTech returns the technology on the selected card, or nil if
// the list is empty.
func (c *CardList) SelectedTech() *catalog.Technology {
	if c.selected < 0 || c.selected >= len(c.cards) {
		return nil
	}
	return c.cards[c.selected].Tech
}

// Select moves the selection to the card named name.
func (c *CardList) Select(name string) bool {
	for i, card := range c.cards {
		if card.Tech.Name == name {
			c.selected = i
			c.updateScroll()
			return true
		}
	}
	return false
}

// MoveUp moves selection up.
func (c *CardList) MoveUp() {
	if c.selected > 0 {
		c.selected--
		c.updateScroll()
	}
}

// MoveDown moves selection down.
func (c *CardList) MoveDown() {
	if c.selected < len(c.cards)-1 {
		c.selected++
		c.updateScroll()
	}
}

// updateScroll ensures the selected card is visible.
func (c *CardList) updateScroll() {
	if c.selected < c.scrollStart {
		c.scrollStart = c.selected
	}
	if c.selected >= c.scrollStart+c.height {
		c.scrollStart = c.selected - c.height + 1
	}
	if c.scrollStart < 0 {
		c.scrollStart = 0
	}
}

// Update handles keyboard events for navigation.
func (c *CardList) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		case "home", "g":
			c.selected = 0
			c.updateScroll()
		case "end", "G":
			c.selected = max(len(c.cards)-1, 0)
			c.updateScroll()
		}
	}
	return nil
}

// View renders the visible cards.
func (c *CardList) View() string {
	if len(c.cards) == 0 {
		return lipgloss.NewStyle().
			Foreground(styles.Muted).
			Italic(true).
			Padding(1, 2).
			Render("No technology matches your search.")
	}

	var lines []string
	end := min(c.scrollStart+c.height, len(c.cards))

	if c.scrollStart > 0 {
		lines = append(lines, styles.MutedTextStyle.Render(fmt.Sprintf("  ↑ %d more above", c.scrollStart)))
	}
	for i := c.scrollStart; i < end; i++ {
		card := c.cards[i]
		if card.Heading != "" {
			lines = append(lines, styles.SectionStyle.Inherit(styles.Level(card.Color)).Render(card.Heading))
		}
		lines = append(lines, c.renderCard(card, i == c.selected))
	}
	if end < len(c.cards) {
		lines = append(lines, styles.MutedTextStyle.Render(fmt.Sprintf("  ↓ %d more below", len(c.cards)-end)))
	}
	return strings.Join(lines, "\n")
}

func (c *CardList) renderCard(card Card, selected bool) string {
	t := card.Tech

	cursor := "  "
	if selected {
		cursor = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("▸ ")
	}
	mark := " "
	if card.Marked {
		mark = styles.MarkStyle.Render("★")
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		cursor, mark,
		styles.CardNameStyle.Render(t.Name),
		styles.MutedTextStyle.Render(fmt.Sprintf("(%d)", t.Year)),
		styles.Level(card.Color).Render(string(t.Level)),
	)
	if !selected {
		return line
	}

	bodyWidth := 60
	if c.width > 8 {
		bodyWidth = c.width - 6
	}
	body := lipgloss.NewStyle().Width(bodyWidth).PaddingLeft(4)

	tags := make([]string, len(t.Tags))
	for i, tag := range t.Tags {
		tags[i] = styles.TagStyle.Render(tag)
	}

	parts := []string{line}
	if len(tags) > 0 {
		parts = append(parts, body.Render(strings.Join(tags, " ")))
	}
	parts = append(parts,
		body.Render(t.Description),
		body.Render(styles.MutedTextStyle.Render("Trivia: ")+t.Trivia),
		body.Render(styles.MutedTextStyle.Render("Execution: ")+string(t.ExecutionType)),
	)
	if t.Link != "" {
		parts = append(parts, body.Render(styles.MutedTextStyle.Render(t.Link)))
	}

	style := styles.BoxStyle
	if c.focused {
		style = styles.FocusedBoxStyle
	}
	return style.Render(strings.Join(parts, "\n"))
}
