// Package cli implements the historygen CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanwk/historygen/internal/config"
	"github.com/tanwk/historygen/internal/generate"
	"github.com/tanwk/historygen/internal/logging"
)

var formatFlag string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "historygen",
	Short: "Deterministic student browsing-history synthesizer",
	Long: "Generates a plausible, seed-reproducible student browsing history and " +
		"encodes it as a Chrome History database. Same seed and weeks, same bytes.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().String("log-level", "", "Log level: info or debug (default from config)")
}

func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, logging.NewLogger(cfg.LogLevel, os.Stderr), nil
}

func newService(cmd *cobra.Command) (*generate.Service, config.Config, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}
	svc, err := generate.NewService(cfg, log)
	if err != nil {
		return nil, config.Config{}, err
	}
	return svc, cfg, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// seedFlag resolves the --seed flag into the optional request seed.
func seedFlag(cmd *cobra.Command) *int64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	v, _ := cmd.Flags().GetInt64("seed")
	return &v
}
