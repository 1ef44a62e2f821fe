package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"smart-home/config"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Print the reports of the built-in two-room house",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Demo()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		return printReports(cmd.OutOrStdout(), a.reporter, []string{"owning", "borrowing"})
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
