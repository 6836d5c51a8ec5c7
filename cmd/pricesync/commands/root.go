package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/maltedev/fba-price-sync/internal/config"
	"github.com/maltedev/fba-price-sync/internal/logger"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string

	cfg     *config.Config
	slogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "pricesync",
	Short:         "pricesync copies Amazon FBA offers into the Zen Arbitrage listings table.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		slogger, err = logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}
		slog.SetDefault(slogger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File with environment variables to load if present.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Overrides LOG_LEVEL (debug, info, warn, error).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
