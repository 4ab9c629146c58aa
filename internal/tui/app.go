// Package tui provides the terminal catalog browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/compare"
	"github.com/dbmrq/techcat/internal/curve"
	"github.com/dbmrq/techcat/internal/logging"
	"github.com/dbmrq/techcat/internal/tui/components"
	"github.com/dbmrq/techcat/internal/tui/styles"
	"github.com/dbmrq/techcat/internal/view"
)

// Title is the animated heading of the browser.
const Title = "Technology Catalog"

// maxMarked is how many cards can be picked for a comparison.
const maxMarked = 2

// Focus is the area that receives key presses.
type Focus int

const (
	FocusSearch Focus = iota
	FocusSuggestions
	FocusCards
)

// levelPayload is the content of the level dialog.
type levelPayload struct {
	Info    catalog.LevelInfo
	Members []string
}

// Options configures a browser model.
type Options struct {
	Catalog    *catalog.Catalog
	Reference  *catalog.Reference
	Comparator compare.Comparator
	// Rand picks the digits of the title scramble. Nil uses math/rand.
	Rand func() bool
}

// Model is the Bubble Tea model for the catalog browser.
type Model struct {
	ctx        context.Context
	catalog    *catalog.Catalog
	reference  *catalog.Reference
	comparator compare.Comparator

	// Components
	header    *components.Header
	search    *components.SearchBox
	cards     *components.CardList
	spinner   *components.Spinner
	shortcuts *components.ShortcutBar
	help      *components.HelpOverlay
	box       *components.Dialog
	result    viewport.Model

	// Dialogs
	execution *view.Dialog[catalog.ExecutionInfo]
	level     *view.Dialog[levelPayload]
	curve     *view.Dialog[*curve.Curve]
	dialogs   *view.Dialogs

	// Comparison state
	seq           compare.Sequencer
	cancelCompare context.CancelFunc
	marked        []string
	comparison    string
	status        string
	statusIsError bool

	focus    Focus
	width    int
	height   int
	quitting bool
}

// New creates a browser model. ctx bounds the comparison calls.
func New(ctx context.Context, opts Options) *Model {
	m := &Model{
		ctx:        ctx,
		catalog:    opts.Catalog,
		reference:  opts.Reference,
		comparator: opts.Comparator,
		header:     components.NewHeader(Title, opts.Rand),
		search:     components.NewSearchBox("Search"),
		cards:      components.NewCardList(),
		spinner:    components.NewSpinner(),
		shortcuts:  components.NewShortcutBar(components.SearchShortcuts...),
		help:       components.NewHelpOverlay(),
		box:        components.NewDialog(),
		result:     viewport.New(80, 6),
		execution:  view.NewDialog[catalog.ExecutionInfo](view.KindExecution),
		level:      view.NewDialog[levelPayload](view.KindLevel),
		curve:      view.NewDialog[*curve.Curve](view.KindCurve),
	}
	m.dialogs = view.NewDialogs(m.execution, m.level, m.curve)
	m.search.Focus()
	m.refresh()
	return m
}

// Init starts the title animation and the cursor blink.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(scrambleTick(), m.search.Focus())
}

func scrambleTick() tea.Cmd {
	return tea.Tick(view.ScrambleInterval, func(t time.Time) tea.Msg {
		return ScrambleTickMsg{Time: t}
	})
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case ScrambleTickMsg:
		if m.header.Tick() {
			return m, scrambleTick()
		}
		return m, nil

	case spinner.TickMsg:
		return m, m.spinner.Update(msg)

	case CompareResultMsg:
		m.handleCompareResult(msg)
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		// Overlays capture input while visible.
		if m.help.IsVisible() {
			return m, m.help.Update(msg)
		}
		if m.dialogs.ScrollLocked() {
			m.handleDialogKey(msg)
			return m, nil
		}
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.header.SetWidth(width)
	m.search.SetWidth(width)
	m.shortcuts.SetWidth(width)
	m.box.SetSize(width, height)

	m.result.Width = max(width-2, 20)
	m.result.Height = 6

	// Header, search with suggestions, result pane and status lines are
	// fixed; the selected card expands to about eight lines.
	fixed := 1 + 1 + catalog.MaxSuggestions + m.result.Height + 4
	m.cards.SetSize(width, height-fixed-8)
	m.renderComparison()
}

// handleMouse closes the open dialog on a left click outside its box or on
// its close button.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if !m.dialogs.ScrollLocked() {
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	target := m.box.Hit(msg.X, msg.Y)
	m.execution.Click(target)
	m.level.Click(target)
	m.curve.Click(target)
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.dialogs.CloseAll()
	}
}

// handleKeyPress handles keyboard input outside overlays.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		m.cancelInFlight()
		return m, tea.Quit
	}

	switch m.focus {
	case FocusSuggestions:
		return m, m.handleSuggestionKey(msg)
	case FocusCards:
		return m.handleCardKey(msg)
	default:
		return m, m.handleSearchKey(msg)
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "enter":
		if msg.String() == "tab" && len(m.search.Suggestions()) > 0 {
			m.setFocus(FocusSuggestions)
			m.search.MoveDown()
			return nil
		}
		m.setFocus(FocusCards)
		return nil
	case "down":
		if len(m.search.Suggestions()) > 0 {
			m.setFocus(FocusSuggestions)
			m.search.MoveDown()
		}
		return nil
	case "esc":
		m.cancelComparison()
		return nil
	}

	changed, cmd := m.search.Update(msg)
	if changed {
		m.refresh()
	}
	return cmd
}

func (m *Model) handleSuggestionKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "down":
		m.search.MoveDown()
	case "up":
		name, _ := m.search.Selected()
		if s := m.search.Suggestions(); len(s) == 0 || name == s[0] {
			m.search.ClearSelection()
			return m.setFocus(FocusSearch)
		}
		m.search.MoveUp()
	case "enter":
		name, ok := m.search.Selected()
		if !ok {
			return nil
		}
		m.search.SetValue(name)
		m.refresh()
		m.cards.Select(name)
		return m.setFocus(FocusCards)
	case "tab":
		m.search.ClearSelection()
		return m.setFocus(FocusCards)
	case "esc":
		m.search.ClearSelection()
		return m.setFocus(FocusSearch)
	}
	return nil
}

func (m *Model) handleCardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		m.cancelInFlight()
		return m, tea.Quit
	case "tab", "/":
		return m, m.setFocus(FocusSearch)
	case "?":
		m.help.Show()
	case "e":
		m.openExecution()
	case "l":
		m.openLevel()
	case "c":
		m.openCurve()
	case " ":
		m.toggleMark()
	case "m":
		return m, m.startComparison()
	case "esc":
		m.cancelComparison()
	case "pgup":
		m.result.HalfPageUp()
	case "pgdown":
		m.result.HalfPageDown()
	default:
		m.cards.Update(msg)
	}
	return m, nil
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.cards.SetFocused(f == FocusCards)

	var cmd tea.Cmd
	if f == FocusSearch {
		cmd = m.search.Focus()
	} else {
		m.search.Blur()
	}

	switch f {
	case FocusSuggestions:
		m.shortcuts.SetShortcuts(components.SuggestionShortcuts...)
	case FocusCards:
		m.shortcuts.SetShortcuts(components.CardShortcuts...)
	default:
		m.shortcuts.SetShortcuts(components.SearchShortcuts...)
	}
	return cmd
}

// refresh recomputes suggestions and cards for the current query. Cards
// are grouped by level while a query is active and sorted by name otherwise.
func (m *Model) refresh() {
	query := m.search.Value()

	var names []string
	for _, t := range m.catalog.Suggest(query) {
		names = append(names, t.Name)
	}
	m.search.SetSuggestions(names)

	results := m.catalog.Search(query)
	var cards []components.Card
	if strings.TrimSpace(query) == "" {
		for i := range results {
			cards = append(cards, m.card(&results[i], ""))
		}
	} else {
		for _, sec := range view.Sections(results, m.reference) {
			for i := range sec.Records {
				heading := ""
				if i == 0 {
					heading = sec.Heading
				}
				cards = append(cards, m.card(&sec.Records[i], heading))
			}
		}
	}
	m.cards.SetCards(cards)
	m.header.SetCounts(len(cards), m.catalog.Len(), strings.TrimSpace(query))
}

func (m *Model) card(t *catalog.Technology, heading string) components.Card {
	c := components.Card{Tech: t, Heading: heading, Marked: m.isMarked(t.Name)}
	if m.reference != nil {
		if info, ok := m.reference.Level(t.Level); ok {
			c.Color = info.TermColor
		}
	}
	return c
}

func (m *Model) isMarked(name string) bool {
	for _, n := range m.marked {
		if n == name {
			return true
		}
	}
	return false
}

// toggleMark marks or unmarks the selected card. Marking a third card
// drops the oldest mark.
func (m *Model) toggleMark() {
	t := m.cards.SelectedTech()
	if t == nil {
		return
	}
	if m.isMarked(t.Name) {
		kept := m.marked[:0]
		for _, n := range m.marked {
			if n != t.Name {
				kept = append(kept, n)
			}
		}
		m.marked = kept
	} else {
		m.marked = append(m.marked, t.Name)
		if len(m.marked) > maxMarked {
			m.marked = m.marked[len(m.marked)-maxMarked:]
		}
	}

	cards := m.cards.Cards()
	for i := range cards {
		cards[i].Marked = m.isMarked(cards[i].Tech.Name)
	}
}

// Marked returns the names picked for comparison, oldest first.
func (m *Model) Marked() []string {
	return m.marked
}

func (m *Model) openExecution() {
	t := m.cards.SelectedTech()
	if t == nil || m.reference == nil {
		return
	}
	info, ok := m.reference.Execution(t.ExecutionType)
	if !ok {
		return
	}
	m.execution.Open(info)
	m.box.SetContent(info.Label, fmt.Sprintf("%s\n\n%s %s\n%s %s",
		string(info.Type),
		styles.SuccessTextStyle.Render("Advantage:"), info.Advantage,
		styles.ErrorTextStyle.Render("Disadvantage:"), info.Disadvantage,
	))
}

func (m *Model) openLevel() {
	t := m.cards.SelectedTech()
	if t == nil || m.reference == nil {
		return
	}
	info, ok := m.reference.Level(t.Level)
	if !ok {
		return
	}
	var members []string
	for _, r := range m.catalog.ByLevel(t.Level) {
		members = append(members, r.Name)
	}
	m.level.Open(levelPayload{Info: info, Members: members})
	m.box.SetContent(info.Label, fmt.Sprintf("%s\n\n%s %s",
		info.Description,
		styles.Level(info.TermColor).Render("In this catalog:"),
		strings.Join(members, ", "),
	))
}

func (m *Model) openCurve() {
	t := m.cards.SelectedTech()
	if t == nil {
		return
	}
	c := curve.For(t.Name)
	m.curve.Open(c)

	plotWidth := m.box.InnerWidth() - 2
	timeLabel := lipgloss.PlaceHorizontal(plotWidth+1, lipgloss.Right, "Time")
	m.box.SetContent("Learning curve: "+t.Name, fmt.Sprintf("%s\n%s\n%s\n\n%s",
		styles.MutedTextStyle.Render("Proficiency"),
		c.Plot(plotWidth, 10),
		styles.MutedTextStyle.Render(timeLabel),
		c.Caption(),
	))
}

// startComparison sends the two marked records to the comparator. The
// request supersedes any comparison still running.
func (m *Model) startComparison() tea.Cmd {
	if len(m.marked) != maxMarked {
		m.setStatus("Mark two cards with space to compare them.", true)
		return nil
	}
	first, ok1 := m.catalog.Lookup(m.marked[0])
	second, ok2 := m.catalog.Lookup(m.marked[1])
	if !ok1 || !ok2 {
		m.setStatus("One or both technologies were not found.", true)
		return nil
	}

	m.cancelInFlight()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelCompare = cancel
	seq := m.seq.Next()
	m.setStatus("", false)

	logging.Debug("comparison started", "seq", seq, "first", first.Name, "second", second.Name)
	spin := m.spinner.Start(fmt.Sprintf("Comparing %s and %s...", first.Name, second.Name))
	return tea.Batch(spin, compareCmd(ctx, cancel, m.comparator, seq, first, second))
}

func compareCmd(ctx context.Context, cancel context.CancelFunc, c compare.Comparator, seq uint64, first, second *catalog.Technology) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		text, err := c.Compare(ctx, first, second)
		return CompareResultMsg{Seq: seq, First: first.Name, Second: second.Name, Text: text, Err: err}
	}
}

func (m *Model) cancelInFlight() {
	if m.cancelCompare != nil {
		m.cancelCompare()
		m.cancelCompare = nil
	}
}

// cancelComparison abandons the running comparison, if any.
func (m *Model) cancelComparison() {
	if !m.spinner.Active() {
		return
	}
	m.seq.Cancel()
	m.cancelInFlight()
	m.spinner.Stop()
	m.setStatus("Comparison cancelled.", false)
}

func (m *Model) handleCompareResult(msg CompareResultMsg) {
	if !m.seq.Current(msg.Seq) {
		logging.Debug("dropping superseded comparison", "seq", msg.Seq)
		return
	}
	m.spinner.Stop()
	m.cancelCompare = nil

	switch {
	case errors.Is(msg.Err, compare.ErrNoText):
		m.setStatus("The AI did not return a comparison. Try again.", true)
		return
	case msg.Err != nil:
		logging.Warn("comparison failed", "error", msg.Err)
		m.setStatus("Failed to process the AI request.", true)
		return
	}

	m.comparison = fmt.Sprintf("%s vs %s\n%s", msg.First, msg.Second, msg.Text)
	m.setStatus("", false)
	m.renderComparison()
}

func (m *Model) renderComparison() {
	if m.comparison == "" {
		return
	}
	body := styles.Emphasize(m.comparison, styles.BoldStyle)
	m.result.SetContent(lipgloss.NewStyle().Width(m.result.Width).Render(body))
	m.result.GotoTop()
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusIsError = isError
}

// Comparison returns the last comparison shown.
func (m *Model) Comparison() string {
	return m.comparison
}

// View renders the browser, or the open overlay on its own screen.
func (m *Model) View() string {
	if m.quitting {
		return "See you next time!\n"
	}

	if m.help.IsVisible() {
		return m.place(m.help.View())
	}
	if m.dialogs.ScrollLocked() {
		return m.box.View()
	}

	var b strings.Builder
	b.WriteString(m.header.View())
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	b.WriteString(m.cards.View())
	b.WriteString("\n")

	if m.width > 0 {
		b.WriteString(styles.RuleStyle.Render(strings.Repeat("─", m.width)))
		b.WriteString("\n")
	}
	switch {
	case m.spinner.Active():
		b.WriteString(m.spinner.View())
	case m.status != "" && m.statusIsError:
		b.WriteString(styles.ErrorTextStyle.Render(m.status))
	case m.status != "":
		b.WriteString(styles.MutedTextStyle.Render(m.status))
	case m.comparison != "":
		b.WriteString(m.result.View())
	case len(m.marked) > 0:
		b.WriteString(styles.MarkStyle.Render("Marked: " + strings.Join(m.marked, ", ")))
	}
	b.WriteString("\n")
	b.WriteString(m.shortcuts.View())
	return b.String()
}

func (m *Model) place(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
