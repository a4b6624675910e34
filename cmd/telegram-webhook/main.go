package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/app"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/config"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/telegram"
	"github.com/spf13/viper"
)

var (
	webhookHandler http.Handler
	once           sync.Once
	initErr        error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleTelegramUpdate", handleTelegramUpdate)
}

func main() {}

func setup(ctx context.Context) (http.Handler, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, err
	}
	app.SetupLogging(cfg.LogLevel)

	// The app lives for the whole instance; its clients are never closed.
	a, err := app.Wire(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return telegram.NewWebhookHandler(a.Bot), nil
}

// handleTelegramUpdate is the HTTP entry point Telegram posts updates to.
func handleTelegramUpdate(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		webhookHandler, initErr = setup(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: Bot initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	webhookHandler.ServeHTTP(w, r)
}
