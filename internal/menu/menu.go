// Package menu implements the numbered command-line assistant: detail a
// technology, print the timeline, or ask the model to compare two entries.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/compare"
	"github.com/dbmrq/techcat/internal/logging"
	"github.com/dbmrq/techcat/internal/tui/styles"
)

// Option is a main menu entry.
type Option int

const (
	OptionDetail Option = iota + 1
	OptionTimeline
	OptionCompare
	OptionExit
)

// Label returns the text shown for the option.
func (o Option) Label() string {
	switch o {
	case OptionDetail:
		return "Detail a technology"
	case OptionTimeline:
		return "Show the technology timeline"
	case OptionCompare:
		return "Compare two technologies (uses the Gemini API)"
	case OptionExit:
		return "Exit"
	default:
		return "unknown"
	}
}

// Options lists the menu in display order.
var Options = []Option{OptionDetail, OptionTimeline, OptionCompare, OptionExit}

// ParseOption reads a menu choice. Surrounding spaces are ignored.
func ParseOption(s string) (Option, bool) {
	switch strings.TrimSpace(s) {
	case "1":
		return OptionDetail, true
	case "2":
		return OptionTimeline, true
	case "3":
		return OptionCompare, true
	case "4":
		return OptionExit, true
	default:
		return 0, false
	}
}

// Runner drives the menu loop over a line-oriented input.
type Runner struct {
	catalog    *catalog.Catalog
	reference  *catalog.Reference
	comparator compare.Comparator

	in  *bufio.Scanner
	out io.Writer
	st  palette
}

// palette binds the shared styles to the runner's output so color is only
// emitted when that output is a terminal.
type palette struct {
	renderer *lipgloss.Renderer

	title, number, prompt, label, rule, muted, errText, warn, bold lipgloss.Style
}

func newPalette(out io.Writer) palette {
	r := lipgloss.NewRenderer(out)
	return palette{
		renderer: r,
		title:    styles.TitleStyle.Renderer(r),
		number:   styles.MenuNumberStyle.Renderer(r),
		prompt:   styles.PromptStyle.Renderer(r),
		label:    styles.LabelStyle.Renderer(r),
		rule:     styles.RuleStyle.Renderer(r),
		muted:    styles.MutedTextStyle.Renderer(r),
		errText:  styles.ErrorTextStyle.Renderer(r),
		warn:     styles.WarningTextStyle.Renderer(r),
		bold:     styles.BoldStyle.Renderer(r),
	}
}

// NewRunner creates a menu over cat. ref may be nil, in which case levels
// are printed without color.
func NewRunner(cat *catalog.Catalog, ref *catalog.Reference, cmp compare.Comparator, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		catalog:    cat,
		reference:  ref,
		comparator: cmp,
		in:         bufio.NewScanner(in),
		out:        out,
		st:         newPalette(out),
	}
}

// Run shows the menu until the user picks Exit or the input ends. Failures
// inside an action are printed and the loop continues; only a read error
// is returned.
func (r *Runner) Run(ctx context.Context) error {
	for {
		r.showMenu()
		choice, ok := r.ask("\nChoose an option (1-4): ")
		if !ok {
			return r.endOfInput()
		}

		opt, valid := ParseOption(choice)
		if !valid {
			r.println(r.st.warn.Render("\nInvalid option. Please choose a number from 1 to 4."))
			continue
		}

		logging.Debug("menu option selected", "option", int(opt))
		switch opt {
		case OptionDetail:
			if !r.detail() {
				return r.endOfInput()
			}
		case OptionTimeline:
			r.timeline()
		case OptionCompare:
			if !r.compare(ctx) {
				return r.endOfInput()
			}
		case OptionExit:
			r.goodbye()
			return nil
		}
	}
}

func (r *Runner) endOfInput() error {
	r.println()
	r.goodbye()
	return r.in.Err()
}

func (r *Runner) showMenu() {
	r.println()
	r.println(r.st.title.Render("Hello! I'm your technology assistant. How can I help?"))
	for _, o := range Options {
		r.println(r.st.number.Render(fmt.Sprintf("%d.", o)) + " " + o.Label())
	}
}

func (r *Runner) goodbye() {
	r.println("\nSee you next time!")
}

// ask prints a prompt and reads one line. It reports false at end of input.
func (r *Runner) ask(prompt string) (string, bool) {
	fmt.Fprint(r.out, r.st.prompt.Render(prompt))
	if !r.in.Scan() {
		return "", false
	}
	return r.in.Text(), true
}

func (r *Runner) println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

func (r *Runner) listNames() {
	r.println("\nAvailable technologies:")
	r.println(strings.Join(r.catalog.Names(), ", "))
}

func (r *Runner) rule(width int) string {
	return r.st.rule.Render(strings.Repeat("-", width))
}

// detail asks for one name and prints every field of the match.
func (r *Runner) detail() bool {
	r.listNames()
	name, ok := r.ask("\nEnter the name of the technology you want to know about: ")
	if !ok {
		return false
	}

	t, found := r.catalog.Lookup(name)
	if !found {
		r.println(r.st.warn.Render("\nTechnology not found. Try again."))
		return true
	}

	heading := fmt.Sprintf("--- Details about %s ---", t.Name)
	r.println()
	r.println(r.st.title.Render(heading))
	r.field("Year", fmt.Sprint(t.Year))
	r.field("Description", t.Description)
	r.field("Trivia", t.Trivia)
	r.field("Tags", strings.Join(t.Tags, ", "))
	r.field("Level", r.levelText(t.Level))
	r.field("Execution", string(t.ExecutionType))
	r.field("Logo", t.LogoURL)
	r.field("Link", t.Link)
	r.println(r.rule(len(heading)))
	r.println()
	return true
}

func (r *Runner) field(label, value string) {
	r.println(r.st.label.Render(label+":") + " " + value)
}

func (r *Runner) levelText(l catalog.Level) string {
	if r.reference == nil {
		return string(l)
	}
	info, ok := r.reference.Level(l)
	if !ok {
		return string(l)
	}
	return styles.Level(info.TermColor).Renderer(r.st.renderer).Render(string(l))
}

// timeline prints "year - name" oldest first.
func (r *Runner) timeline() {
	heading := "--- Technology Timeline ---"
	r.println()
	r.println(r.st.title.Render(heading))
	for _, t := range r.catalog.Timeline() {
		r.println(fmt.Sprintf("%d - %s", t.Year, t.Name))
	}
	r.println(r.rule(len(heading)))
	r.println()
}

// compare asks for two names and prints the model's answer. Any failure
// is reported on one line and the menu continues.
func (r *Runner) compare(ctx context.Context) bool {
	r.listNames()
	name1, ok := r.ask("\nEnter the name of the first technology: ")
	if !ok {
		return false
	}
	name2, ok := r.ask("Enter the name of the second technology: ")
	if !ok {
		return false
	}

	t1, ok1 := r.catalog.Lookup(name1)
	t2, ok2 := r.catalog.Lookup(name2)
	if !ok1 || !ok2 {
		r.println(r.st.warn.Render("\nOne or both technologies were not found. Try again."))
		return true
	}

	r.println(r.st.muted.Render(fmt.Sprintf("\nComparing %s and %s... (waiting for the AI)", t1.Name, t2.Name)))

	text, err := r.comparator.Compare(ctx, t1, t2)
	switch {
	case errors.Is(err, compare.ErrNoText):
		r.println(r.st.warn.Render("\nThe AI did not return a comparison. Try again."))
		return true
	case err != nil:
		r.println(r.st.errText.Render("\nError contacting the Gemini API: " + err.Error()))
		return true
	}

	heading := "--- AI Analysis ---"
	r.println()
	r.println(r.st.title.Render(heading))
	r.println(styles.Emphasize(text, r.st.bold))
	r.println(r.rule(len(heading)))
	r.println()
	return true
}
