/*
main.go - Application entry point

PURPOSE:
  Command-line front end of the saju engine: runs the HTTP server, or
  calculates a single chart in the terminal.

COMMANDS:
  serve   Start the HTTP server (default when no command is given)
  calc    Calculate one chart and print it

STARTUP SEQUENCE (serve):
  1. Load config (defaults, YAML, .env, SAJU_* environment, flags)
  2. Build the zap logger
  3. Create the calculator with the configured options
  4. Initialize SQLite store and restore saved options
  5. Start the current-chart refresher
  6. Configure HTTP router and start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_timeout)
  3. Stop the refresher and close the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server serve --db=./data/saju.db

  # Run with in-memory database on another port
  ./server serve --db=:memory: --port=3000

  # One chart, as text or JSON
  ./server calc --date=1990-01-15 --hour=13:00 --gender=M --location="Tokyo, Japan"
  ./server calc --date=1990-01-15 --hour=13 --json

SEE ALSO:
  - config/config.go: Configuration sources
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/saju-engine/api"
	"github.com/warp/saju-engine/config"
	"github.com/warp/saju-engine/location"
	"github.com/warp/saju-engine/saju"
	"github.com/warp/saju-engine/store/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootFlags are shared by every command.
type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var rf rootFlags

	serve := newServeCmd(&rf)
	root := &cobra.Command{
		Use:   "server",
		Short: "Four Pillars (四柱推命) calculation engine",
		Long: `Calculates Four Pillars charts: solar-time adjustment, the four
sexagenary pillars, ten gods, twelve fortunes, pattern and luck cycles.

Run without a command to start the HTTP server.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVarP(&rf.configPath, "config", "c", "saju.yaml", "YAML config file (missing file uses defaults)")
	root.PersistentFlags().BoolVarP(&rf.verbose, "verbose", "v", false, "Enable debug logging")
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve)
	root.AddCommand(newCalcCmd(&rf))
	return root
}

// =============================================================================
// SERVE
// =============================================================================

func newServeCmd(rf *rootFlags) *cobra.Command {
	var (
		port   int
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rf)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("db") {
				cfg.Server.DBPath = dbPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, rf.verbose)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port")
	cmd.Flags().StringVar(&dbPath, "db", "saju.db", `SQLite database path (":memory:" for in-memory)`)
	return cmd
}

func loadConfig(rf *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(rf.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newCalculator(cfg *config.Config, logger *zap.Logger) *saju.Calculator {
	return saju.NewCalculator(
		saju.WithConfig(cfg.Engine),
		saju.WithLogger(logger),
		saju.WithDefaultLocation(location.ByName(cfg.DefaultLocation)),
	)
}

func runServer(ctx context.Context, cfg *config.Config, verbose bool) error {
	logger, err := cfg.Log.Build(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	calc := newCalculator(cfg, logger)

	// Initialize store
	store, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, calc, logger)

	// Options saved through the API win over the config file
	if err := handler.LoadOptions(context.Background()); err != nil {
		logger.Warn("failed to restore saved options", zap.Error(err))
	}

	refresher := api.NewCurrentChartRefresher(calc, logger)
	refresher.Start()
	defer refresher.Stop()
	handler.Current = refresher

	router := api.NewRouter(handler, cfg.Server.AllowedOrigins...)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
			zap.String("db", cfg.Server.DBPath),
			zap.String("defaultLocation", cfg.DefaultLocation))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
