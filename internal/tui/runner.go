package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the browser full screen until the user quits or ctx is done.
// Extra program options are applied after the defaults, so callers can
// redirect input and output.
func Run(ctx context.Context, opts Options, programOpts ...tea.ProgramOption) error {
	model := New(ctx, opts)

	all := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}
	all = append(all, programOpts...)

	_, err := tea.NewProgram(model, all...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
