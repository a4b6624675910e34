package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys are viper keys; each one is also read from the upper-cased environment variable.
const (
	KeyTelegramToken     = "telegram_token"
	KeyTelegramEndpoint  = "telegram_api_endpoint"
	KeyArtifactDir       = "artifact_dir"
	KeyArtifactBucket    = "artifact_bucket"
	KeyProjectID         = "project_id"
	KeyHistoryCollection = "history_collection"
	KeyHistoryDB         = "history_db"
	KeyFetchTimeout      = "fetch_timeout"
	KeyMaxImageBytes     = "max_image_bytes"
	KeyPollTimeout       = "poll_timeout"
	KeyWebhookURL        = "webhook_url"
	KeyLogLevel          = "log_level"
)

const (
	DefaultFetchTimeout  = 10 * time.Second
	DefaultMaxImageBytes = 20 * 1024 * 1024
)

// Config stores runtime configuration for the bot.
type Config struct {
	TelegramToken     string
	TelegramEndpoint  string
	ArtifactDir       string
	ArtifactBucket    string
	ProjectID         string
	HistoryCollection string
	HistoryDB         string
	FetchTimeout      time.Duration
	MaxImageBytes     int64
	PollTimeout       int
	WebhookURL        string
	LogLevel          slog.Level
}

// Load reads configuration from a .env file (if present), the environment,
// and any flags already bound to v.
func Load(v *viper.Viper) (Config, error) {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()

	v.AutomaticEnv()
	v.SetDefault(KeyTelegramEndpoint, tgbotapi.APIEndpoint)
	v.SetDefault(KeyArtifactDir, "temp")
	v.SetDefault(KeyHistoryCollection, "conversions")
	v.SetDefault(KeyFetchTimeout, DefaultFetchTimeout)
	v.SetDefault(KeyMaxImageBytes, DefaultMaxImageBytes)
	v.SetDefault(KeyPollTimeout, 60)
	v.SetDefault(KeyLogLevel, "info")

	cfg := Config{
		TelegramToken:     strings.TrimSpace(v.GetString(KeyTelegramToken)),
		TelegramEndpoint:  v.GetString(KeyTelegramEndpoint),
		ArtifactDir:       v.GetString(KeyArtifactDir),
		ArtifactBucket:    v.GetString(KeyArtifactBucket),
		ProjectID:         strings.TrimSpace(v.GetString(KeyProjectID)),
		HistoryCollection: strings.TrimSpace(v.GetString(KeyHistoryCollection)),
		HistoryDB:         v.GetString(KeyHistoryDB),
		FetchTimeout:      v.GetDuration(KeyFetchTimeout),
		MaxImageBytes:     v.GetInt64(KeyMaxImageBytes),
		PollTimeout:       v.GetInt(KeyPollTimeout),
		WebhookURL:        v.GetString(KeyWebhookURL),
	}

	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_TOKEN environment variable must be set")
	}
	if cfg.ProjectID != "" && (cfg.HistoryCollection == "" || strings.Contains(cfg.HistoryCollection, "/")) {
		return Config{}, fmt.Errorf("HISTORY_COLLECTION must be a top-level collection id when PROJECT_ID is set, got %q", cfg.HistoryCollection)
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}
	if cfg.MaxImageBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_IMAGE_BYTES must be positive, got %d", cfg.MaxImageBytes)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return cfg, nil
}
