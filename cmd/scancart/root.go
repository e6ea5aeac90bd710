package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scancart/scancart/internal/logging"
)

// Set by PersistentPreRunE for all subcommands.
var (
	flagConfigFile string

	cfg    Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scancart",
	Short: "Scancart is a shopping list service",
	Long: `Scancart manages shopping lists backed by a local SQLite database.
It serves an HTTP API with a websocket change feed, exports and restores
versioned JSON backups, and looks up scanned products via Open Food Facts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(flagConfigFile)
		if err != nil {
			return err
		}
		logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file (optional; SCANCART_* env vars always apply)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(resetCmd)
}
