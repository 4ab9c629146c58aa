// Package cmd provides the CLI commands for techcat.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/compare"
	"github.com/dbmrq/techcat/internal/config"
	apperrors "github.com/dbmrq/techcat/internal/errors"
	"github.com/dbmrq/techcat/internal/logging"
	"github.com/dbmrq/techcat/internal/menu"
	"github.com/dbmrq/techcat/internal/metrics"
	"github.com/dbmrq/techcat/internal/prompt"
)

// Version information, set by main before Execute.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// newRootCmd builds the command tree. Each call returns fresh commands so
// flag state never leaks between runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "techcat",
		Short: "Technology catalog assistant",
		Long: `techcat explores a catalog of programming languages and asks Gemini
to compare any two of them.

Without a subcommand it starts the numbered menu:
  1. Detail a technology
  2. Show the technology timeline
  3. Compare two technologies (uses the Gemini API)
  4. Exit

Examples:
  techcat                       # Numbered menu
  techcat browse                # Full-screen catalog browser
  techcat serve --addr :8080    # Web page and JSON API
  techcat --data ./data.json    # Use another dataset`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMenu,
	}
	root.SetVersionTemplate("techcat {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to config file (default: ./techcat.yaml when present)")
	flags.String("data", "", "Path to the dataset JSON file")
	flags.String("data-url", "", "URL of the dataset JSON file, used when --data is not set")
	flags.String("model", "", "Gemini model name")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")

	root.AddCommand(newServeCmd(), newBrowseCmd(), newVersionCmd())
	return root
}

// Execute runs the CLI and exits with status 1 on failure.
func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), apperrors.FormatAny(err))
		os.Exit(1)
	}
}

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"data":       "data.path",
	"data-url":   "data.url",
	"model":      "gemini.model",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// loadConfig reads .env, the config file and the environment, then applies
// the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	loader := config.NewLoader()
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			loader.Set(key, f.Value.String())
		}
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		loader.Set("server.addr", f.Value.String())
	}

	path, _ := cmd.Flags().GetString("config")
	return loader.LoadConfig(path)
}

// initLogging installs the global logger. Console output goes to the
// command's stderr unless console is false.
func initLogging(cmd *cobra.Command, cfg *config.Config, console bool) (func(), error) {
	lc := cfg.LoggingConfig()
	lc.Console = lc.Console && console
	lc.Output = cmd.ErrOrStderr()
	if err := logging.InitGlobal(lc); err != nil {
		return nil, err
	}
	return func() { _ = logging.CloseGlobal() }, nil
}

func dataSource(cfg *config.Config) catalog.Source {
	return catalog.Source{Path: cfg.Data.Path, URL: cfg.Data.URL}
}

// newComparator wires the Gemini client to the prompt templates of style.
func newComparator(ctx context.Context, cfg *config.Config, style prompt.Style, m *metrics.Metrics) (*compare.Service, error) {
	tmpl, err := prompt.NewLoader(cfg.Gemini.PromptDir).Load(style)
	if err != nil {
		return nil, err
	}
	gen, err := compare.NewGemini(ctx, compare.GeminiOptions{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout,
		Metrics: m,
	})
	if err != nil {
		return nil, err
	}
	return compare.NewService(gen, prompt.NewBuilder(tmpl), m), nil
}

// runMenu is the numbered terminal assistant. A missing API key or dataset
// stops it before the menu is shown.
func runMenu(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := initLogging(cmd, cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	src := dataSource(cfg)
	cat, err := catalog.Load(ctx, src)
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

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Knowledge base '%s' loaded with %d items.\n", src, cat.Len())
	return menu.NewRunner(cat, ref, svc, cmd.InOrStdin(), out).Run(ctx)
}
