package main

import (
	"fmt"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/config"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/telegram"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newWebhookCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}
	cmd.AddCommand(newWebhookSetCmd(v), newWebhookDeleteCmd(v))
	return cmd
}

func newWebhookSetCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Point the bot's webhook at the deployed function",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cfg.WebhookURL == "" {
				return fmt.Errorf("WEBHOOK_URL must be set (or pass --url)")
			}

			api, err := telegram.Dial(cfg.TelegramToken, cfg.TelegramEndpoint)
			if err != nil {
				return err
			}
			if err := telegram.SetWebhook(api, cfg.WebhookURL); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "webhook set to %s\n", cfg.WebhookURL)
			return err
		},
	}

	cmd.Flags().String("url", "", "public HTTPS url of the webhook function (env WEBHOOK_URL)")
	bindFlags(v, cmd, map[string]string{config.KeyWebhookURL: "url"})
	return cmd
}

func newWebhookDeleteCmd(v *viper.Viper) *cobra.Command {
	var dropPending bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook so the bot can be polled",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			api, err := telegram.Dial(cfg.TelegramToken, cfg.TelegramEndpoint)
			if err != nil {
				return err
			}
			if err := telegram.DeleteWebhook(api, dropPending); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "webhook deleted")
			return err
		},
	}

	cmd.Flags().BoolVar(&dropPending, "drop-pending", false, "discard updates Telegram queued while the webhook was set")
	return cmd
}
