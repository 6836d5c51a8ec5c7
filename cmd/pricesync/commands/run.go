package commands

import (
	"github.com/maltedev/fba-price-sync/internal/app"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Updates the whole listings table once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateCredentials(); err != nil {
			return err
		}

		_, err := app.New(cfg, slogger).Run(cmd.Context())
		return err
	},
}
