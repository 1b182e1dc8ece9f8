// Package cmd implements the recall command-line interface: the operator
// surface over the retrieval engine and its on-device history stores.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/koopa0/recall/internal/config"
	"github.com/koopa0/recall/internal/log"
)

var (
	cfgFile string
	debug   bool
	jsonLog bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Recall - on-device retrieval over your device history",
	Long: `Recall retrieves relevant context from your device history
(remembered facts, clipboard, screen activity, past searches) for a
local language model, within a strict character budget.

Run 'recall ask <query>' to see the assembled context block, or
'recall query <question>' for a direct, human-readable answer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if debug {
			loaded.Debug = true
		}
		if jsonLog {
			loaded.LogJSON = true
		}
		cfg = loaded

		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		logger = log.New(log.Config{Level: level, JSON: cfg.LogJSON})
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.recall/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "log in JSON format")
}
