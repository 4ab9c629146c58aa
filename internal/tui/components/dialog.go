package components

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/tui/styles"
	"github.com/dbmrq/techcat/internal/view"
)

const closeLabel = "[x]"

// Dialog boxes one of the catalog dialogs and places it in the middle of
// the screen. It remembers where it was drawn so mouse clicks can be
// mapped to the backdrop, the box or its close button.
type Dialog struct {
	title string
	body  string

	screenWidth  int
	screenHeight int

	// Bounds of the last render, in screen cells.
	left, top, width, height int
}

// NewDialog creates an empty dialog.
func NewDialog() *Dialog {
	return &Dialog{}
}

// SetContent sets the title line and the body text.
func (d *Dialog) SetContent(title, body string) {
	d.title = title
	d.body = body
}

// SetSize sets the screen size the dialog is centered in.
func (d *Dialog) SetSize(width, height int) {
	d.screenWidth = width
	d.screenHeight = height
}

// InnerWidth returns the width available to the body text.
func (d *Dialog) InnerWidth() int {
	w := 56
	if d.screenWidth > 0 {
		w = min(w, d.screenWidth-8)
	}
	return max(w, 20)
}

// box renders the framed dialog without placing it.
func (d *Dialog) box() string {
	inner := d.InnerWidth()

	titleWidth := inner - len(closeLabel)
	title := []rune(d.title)
	if len(title) > titleWidth {
		title = append(title[:titleWidth-1], '…')
	}
	heading := lipgloss.NewStyle().
		Width(titleWidth).
		Bold(true).
		Foreground(styles.Secondary).
		Render(string(title))
	closeBtn := styles.KeyStyle.Render(closeLabel)

	body := lipgloss.NewStyle().Width(inner).Render(d.body)
	return styles.DialogStyle.Render(heading + closeBtn + "\n\n" + body)
}

// View renders the dialog centered on the screen and records its bounds.
func (d *Dialog) View() string {
	box := d.box()
	d.width = lipgloss.Width(box)
	d.height = lipgloss.Height(box)
	if d.screenWidth <= 0 || d.screenHeight <= 0 {
		d.left, d.top = 0, 0
		return box
	}

	d.left = centerOffset(d.screenWidth, d.width)
	d.top = centerOffset(d.screenHeight, d.height)
	return lipgloss.Place(d.screenWidth, d.screenHeight, lipgloss.Center, lipgloss.Center, box)
}

// centerOffset matches how lipgloss.Place splits the free space.
func centerOffset(total, size int) int {
	gap := total - size
	if gap <= 0 {
		return 0
	}
	split := int(math.Round(float64(gap) * 0.5))
	return gap - split
}

// Hit maps a screen cell to the part of the dialog under it. The close
// button sits at the right end of the title line.
func (d *Dialog) Hit(x, y int) view.Target {
	if x < d.left || x >= d.left+d.width || y < d.top || y >= d.top+d.height {
		return view.TargetBackdrop
	}

	st := styles.DialogStyle
	titleY := d.top + st.GetBorderTopSize() + st.GetPaddingTop()
	closeX := d.left + st.GetBorderLeftSize() + st.GetPaddingLeft() + d.InnerWidth() - len(closeLabel)
	if y == titleY && x >= closeX && x < closeX+len(closeLabel) {
		return view.TargetCloseButton
	}
	return view.TargetContent
}
