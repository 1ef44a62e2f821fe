package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smart-home/config"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "smarthome",
	Short: "Smart home device reports",
	Long: `smarthome loads a house (rooms referencing devices by name) and a set of
device info providers, then builds one report per provider listing every
required device found in the rooms.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "Config file path (env: SMARTHOME_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level override: debug, info, warn, error")
}

// Execute runs the root command.
func Execute(version string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("smarthome %s\n", version))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from flag or environment.
func resolveConfigPath(cmd *cobra.Command) string {
	if !cmd.Flags().Changed("config") {
		if v := os.Getenv("SMARTHOME_CONFIG"); v != "" {
			return v
		}
	}
	return flagConfig
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath(cmd))
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}
