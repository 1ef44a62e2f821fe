package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"smart-home/internal/infra/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over HTTP and publish them periodically",
	Long: `Start the HTTP report endpoint (GET /reports/{provider}, /providers, /rooms,
/health). When report.interval is set, every provider's report is also
delivered to the configured notifiers on that interval.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	interval, err := time.ParseDuration(cfg.Report.Interval)
	if err != nil {
		logger.Warn("invalid report interval, periodic publishing disabled", "error", err, "value", cfg.Report.Interval)
		interval = 0
	}
	if interval > 0 {
		a.reporter.StartPeriodic(ctx, interval)
	}

	server := httpapi.NewServer(cfg.HTTP.Addr, cfg.HTTP.AuthToken, cfg.HTTP.RateLimit, a.reporter, logger)
	if cfg.HTTP.TrustProxy {
		server.TrustProxyHeaders()
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting http server: %w", err)
	}

	logger.Info("smart home reporter ready",
		"addr", cfg.HTTP.Addr,
		"providers", len(a.reporter.Providers()),
		"interval", interval,
	)

	<-ctx.Done()
	logger.Info("shutting down")
	return server.Stop()
}
