package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/perisailabs/perisai/internal/reputation"
	"github.com/perisailabs/perisai/internal/server"
)

var (
	serveAddr    string
	serveCatalog string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the comparison HTTP API",
	Long: `Serve exposes the comparison engine over HTTP:
- POST /v1/compare  compare policies against a customer profile
- POST /v1/route    route a question to a knowledge base
- GET  /v1/policies the loaded catalog, normalized
- GET  /healthz     liveness

The server drains in-flight requests on SIGINT/SIGTERM.

Example:
  perisai serve
  perisai serve --addr :9000 --policies quotes.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8380)")
	serveCmd.Flags().StringVar(&serveCatalog, "policies", "", "policy catalog file (YAML, JSON, or HTML table; default: embedded seed catalog)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	records, err := loadRecords(serveCatalog, cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	ratings, err := reputation.FromConfig(cfg.Reputation, logger)
	if err != nil {
		return fmt.Errorf("ratings source: %w", err)
	}

	srv := server.New(server.Options{
		Config:  cfg,
		Logger:  logger,
		Ratings: ratings,
		Catalog: records,
	})

	fmt.Fprintf(os.Stderr, "⚙️  Serving on %s (%d catalog records)\n", cfg.Server.Addr, len(records))

	return srv.Run(ctx)
}

// newLogger picks the logging profile: human-readable in verbose runs,
// structured JSON otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
