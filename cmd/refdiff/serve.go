package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/refdiff/refdiff/internal/config"
	"github.com/refdiff/refdiff/internal/server"
	"github.com/refdiff/refdiff/internal/storage"
)

var serveListen string

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the comparison web UI",
	Long: `Run the web UI: upload two RIS files, view which references appear
in both, and export any subset back to RIS. Comparison results are kept
for 24 hours so export links keep working, then cleaned up.

Examples:
  refdiff serve
  refdiff serve --listen :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if serveListen != "" {
		cfg.Listen = serveListen
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		exitWithError(ExitConfigError, "initializing logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := os.MkdirAll(config.DataDir(), 0755); err != nil {
		exitWithError(ExitError, "creating data directory: %v", err)
	}
	db, err := storage.Open(config.SessionDBPath())
	if err != nil {
		exitWithError(ExitError, "opening session store: %v", err)
	}
	defer db.Close()

	srv, err := server.New(cfg, db, logger)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}

// buildLogger sets up zap at the configured level. Debug level gets the
// development encoder for readable local output.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var zcfg zap.Config
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
