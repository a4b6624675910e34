package main

import (
	"fmt"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/app"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "jpg2pdf",
		Short:         "Telegram bot that turns photos into a PDF",
		Long:          "jpg2pdf collects the photos a user sends to the bot and, when the user presses \"PDF yaratish\", replies with one PDF that has a page per photo at the photo's pixel size.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("token", "", "Telegram bot token (env TELEGRAM_TOKEN)")
	flags.String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.String("artifact-dir", "", "directory for transient PDFs (env ARTIFACT_DIR)")
	flags.String("artifact-bucket", "", "Cloud Storage bucket for transient PDFs (env ARTIFACT_BUCKET)")
	flags.String("history-db", "", "SQLite file for the conversion history (env HISTORY_DB)")
	bindFlags(v, rootCmd, map[string]string{
		config.KeyTelegramToken:  "token",
		config.KeyLogLevel:       "log-level",
		config.KeyArtifactDir:    "artifact-dir",
		config.KeyArtifactBucket: "artifact-bucket",
		config.KeyHistoryDB:      "history-db",
	})

	rootCmd.AddCommand(
		newPollCmd(v),
		newWebhookCmd(v),
		newHistoryCmd(v),
	)

	return rootCmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.PersistentFlags().Lookup(name)
		if flag == nil {
			flag = cmd.Flags().Lookup(name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig(v *viper.Viper) (config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, err
	}
	app.SetupLogging(cfg.LogLevel)
	return cfg, nil
}
