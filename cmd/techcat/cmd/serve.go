package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/logging"
	"github.com/dbmrq/techcat/internal/metrics"
	"github.com/dbmrq/techcat/internal/prompt"
	"github.com/dbmrq/techcat/internal/server"
)

func newServeCmd() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog page and the JSON API",
		Long: `Serve the catalog web page, the JSON API and the comparison gateway.

The server needs a Gemini API key and a readable dataset; it refuses to
start without either. It stops gracefully on SIGINT or SIGTERM.

Examples:
  techcat serve                  # Listen on :3000
  techcat serve --addr :8080     # Listen on another address
  techcat serve --metrics=false  # Do not expose /metrics`,
		RunE: runServe,
	}
	serve.Flags().String("addr", "", "Listen address (default :3000)")
	serve.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	return serve
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	log := logging.Global().WithContext(logging.WithCommand(ctx, cmd.Name()))
	if path := log.LogPath(); path != "" {
		log.Info("writing log file", "path", path)
	}
	log.Info("knowledge base loaded", "source", src.String(), "technologies", cat.Len())

	var m *metrics.Metrics
	if enabled, _ := cmd.Flags().GetBool("metrics"); enabled {
		m = metrics.New()
	}

	svc, err := newComparator(ctx, cfg, prompt.StyleWeb, m)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Config:     cfg.Server,
		Catalog:    cat,
		Comparator: svc,
		Metrics:    m,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
