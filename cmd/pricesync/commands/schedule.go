package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/maltedev/fba-price-sync/internal/api"
	"github.com/maltedev/fba-price-sync/internal/app"
	"github.com/maltedev/fba-price-sync/internal/scheduler"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Updates the listings table repeatedly, waiting a random interval between runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateCredentials(); err != nil {
			return err
		}

		ctx := cmd.Context()
		s := scheduler.New(app.New(cfg, slogger).Run, cfg.Schedule.MinInterval, cfg.Schedule.MaxInterval, slogger)

		if cfg.Status.Addr != "" {
			server := &http.Server{
				Addr:         cfg.Status.Addr,
				Handler:      api.NewRouter(api.NewHandlers(s, slogger)),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				slogger.Info("status server starting", "addr", cfg.Status.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slogger.Error("status server failed", "error", err)
				}
			}()

			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slogger.Error("status server shutdown failed", "error", err)
				}
			}()
		}

		return s.Start(ctx)
	},
}
