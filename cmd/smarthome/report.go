package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"smart-home/internal/application"
)

var flagNotify bool

var reportCmd = &cobra.Command{
	Use:   "report [provider...]",
	Short: "Print the report of each provider",
	Long: `Build and print one report per provider. Without arguments every configured
provider is used. With --notify the reports are also delivered to the
configured notifiers (Pushover, MQTT).`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&flagNotify, "notify", false, "Deliver reports to the configured notifiers")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log, os.Stderr)

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return deliverReports(cmd.Context(), cmd.OutOrStdout(), a.reporter, args, flagNotify)
}

// deliverReports prints the reports and, with notify set, publishes them
// even when some failed to build.
func deliverReports(ctx context.Context, w io.Writer, reporter *application.Reporter, names []string, notify bool) error {
	printErr := printReports(ctx, w, reporter, names)
	if !notify {
		return printErr
	}
	return errors.Join(printErr, reporter.Publish(ctx, names...))
}

// printReports writes every report, numbered as "Report #n", and returns
// the joined failures once all providers have run.
func printReports(ctx context.Context, w io.Writer, reporter *application.Reporter, names []string) error {
	if len(names) == 0 {
		names = reporter.Providers()
	}

	var errs []error
	for i, name := range names {
		report, err := reporter.Report(ctx, name)
		if err != nil {
			fmt.Fprintf(w, "Report #%d (%s) failed: %v\n", i+1, name, err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		fmt.Fprintf(w, "Report #%d (%s): %s\n", i+1, name, report)
	}

	return errors.Join(errs...)
}
