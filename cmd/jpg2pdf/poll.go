package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/app"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/config"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/telegram"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newPollCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Run the bot with long polling",
		Long:  "poll removes any registered webhook and serves updates through getUpdates until interrupted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Wire(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					slog.Warn("Failed to close clients", "error", err)
				}
			}()

			if err := telegram.DeleteWebhook(a.API, false); err != nil {
				return err
			}
			if err := telegram.NewPoller(a.API, a.Bot, cfg.PollTimeout).Run(ctx); err != nil {
				return err
			}
			slog.Info("Polling stopped.")
			return nil
		},
	}

	cmd.Flags().Int("poll-timeout", 0, "long-poll timeout in seconds (env POLL_TIMEOUT)")
	bindFlags(v, cmd, map[string]string{config.KeyPollTimeout: "poll-timeout"})
	return cmd
}
