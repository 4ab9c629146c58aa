package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/prompt"
	"github.com/dbmrq/techcat/internal/tui"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog in a full-screen terminal UI",
		Long: `Browse the catalog in a full-screen terminal UI.

Type to filter by name, open the execution, level and learning-curve
dialogs for a card, and mark two cards with space to compare them.
Press ? inside the browser for every key binding.`,
		RunE: runBrowse,
	}
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Console logs would draw over the alternate screen.
	closeLog, err := initLogging(cmd, cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	cat, err := catalog.Load(ctx, dataSource(cfg))
	if err != nil {
		return err
	}
	ref, err := catalog.DefaultReference()
	if err != nil {
		return err
	}
	svc, err := newComparator(ctx, cfg, prompt.StyleCLI, nil)
	if err != nil {
		return err
	}

	return tui.Run(ctx, tui.Options{
		Catalog:    cat,
		Reference:  ref,
		Comparator: svc,
	})
}
