// Package components provides reusable TUI components for techcat.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/tui/styles"
	"github.com/dbmrq/techcat/internal/view"
)

// Header shows the animated title and how many technologies are listed.
type Header struct {
	scramble *view.Scramble
	shown    int
	total    int
	query    string
	width    int
}

// NewHeader creates a header whose title starts fully scrambled. rnd picks
// the scramble bits; nil uses math/rand.
func NewHeader(title string, rnd func() bool) *Header {
	return &Header{scramble: view.NewScramble(title, rnd)}
}

// Tick advances the title animation and reports whether more frames remain.
func (h *Header) Tick() bool {
	return h.scramble.Step()
}

// Animating reports whether the title is still being revealed.
func (h *Header) Animating() bool {
	return !h.scramble.Done()
}

// SetCounts sets the number of listed and total technologies and the
// active query.
func (h *Header) SetCounts(shown, total int, query string) {
	h.shown = shown
	h.total = total
	h.query = query
}

// SetWidth sets the width for the header.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	title := styles.TitleStyle.Render(h.scramble.Frame())

	sep := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render(" │ ")

	info := styles.HeaderLabelStyle.Render(fmt.Sprintf("%d of %d", h.shown, h.total))
	if h.query != "" {
		info += sep + styles.HeaderLabelStyle.Render("search: ") + styles.CardNameStyle.Render(h.query)
	}

	style := lipgloss.NewStyle().Padding(0, 1)
	if h.width > 0 {
		style = style.Width(h.width)
	}
	return style.Render(title + sep + info)
}
