package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/techcat/internal/tui/styles"
)

// Spinner shows an animated spinner with status text and elapsed time
// while a comparison is running.
type Spinner struct {
	spinner    spinner.Model
	statusText string
	startTime  time.Time
	active     bool
}

// NewSpinner creates a new Spinner component with default styling.
func NewSpinner() *Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Secondary)
	return &Spinner{spinner: s}
}

// Start shows the spinner with text and returns the command that animates it.
func (s *Spinner) Start(text string) tea.Cmd {
	s.statusText = text
	s.startTime = time.Now()
	s.active = true
	return s.spinner.Tick
}

// Stop hides the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is shown.
func (s *Spinner) Active() bool {
	return s.active
}

// Update handles spinner tick messages. Ticks stop once the spinner is hidden.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner line, or nothing when hidden.
func (s *Spinner) View() string {
	if !s.active {
		return ""
	}
	elapsed := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render(fmt.Sprintf("(%ds)", int(time.Since(s.startTime).Seconds())))
	return fmt.Sprintf("%s %s %s", s.spinner.View(), s.statusText, elapsed)
}
