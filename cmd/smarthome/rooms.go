package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"smart-home/config"
	"smart-home/internal/infra/inventory"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List rooms and the device names they reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		printRooms(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roomsCmd)
}

func printRooms(w io.Writer, cfg *config.Config) {
	house := inventory.House(cfg.House, setupLogger(cfg.Log, os.Stderr))

	fmt.Fprintf(w, "House: %s\n", house.Description())
	for _, room := range house.Rooms() {
		devices := room.Devices()
		if len(devices) == 0 {
			fmt.Fprintf(w, "  %s: (empty)\n", room.Name())
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", room.Name(), strings.Join(devices, ", "))
	}
}
