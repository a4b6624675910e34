package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/artifacts"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/config"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/document"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/fetch"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/gcp"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/history"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/services"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/store"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// App is a fully wired bot.
type App struct {
	Config config.Config
	API    *tgbotapi.BotAPI
	Bot    *services.Bot

	closers []func() error
}

// SetupLogging installs the JSON slog handler as the default logger.
func SetupLogging(level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// Wire connects to Telegram and builds the bot with the backends cfg selects.
func Wire(ctx context.Context, cfg config.Config) (*App, error) {
	api, err := telegram.Dial(cfg.TelegramToken, cfg.TelegramEndpoint)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, API: api}
	bot, err := a.buildBot(ctx, telegram.NewClient(api))
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Bot = bot
	slog.Info("Bot initialized.", "username", api.Self.UserName)
	return a, nil
}

func (a *App) buildBot(ctx context.Context, messenger services.Messenger) (*services.Bot, error) {
	cfg := a.Config

	artifactStore, err := a.artifactStore(ctx)
	if err != nil {
		return nil, err
	}
	recorder, err := a.recorder(ctx)
	if err != nil {
		return nil, err
	}

	pending := store.NewMemoryStore()
	fetcher := fetch.NewFetcher(&http.Client{}, cfg.FetchTimeout, cfg.MaxImageBytes)

	collector := services.NewImageCollector(messenger, fetcher, pending)
	assembler := services.NewDocumentAssembler(messenger, document.NewAssembler(), pending, artifactStore, recorder)
	return services.NewBot(messenger, collector, assembler), nil
}

func (a *App) artifactStore(ctx context.Context) (artifacts.Store, error) {
	if bucket := a.Config.ArtifactBucket; bucket != "" {
		client, err := gcp.NewStorageClient(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to create artifact store: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		slog.Info("Using Cloud Storage for transient artifacts.", "bucket", bucket)
		return artifacts.NewGCSStore(client, bucket), nil
	}

	local, err := artifacts.NewLocalStore(a.Config.ArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact store: %w", err)
	}
	slog.Info("Using local directory for transient artifacts.", "dir", a.Config.ArtifactDir)
	return local, nil
}

func (a *App) recorder(ctx context.Context) (history.Recorder, error) {
	switch {
	case a.Config.ProjectID != "":
		client, err := gcp.NewHistoryClient(ctx, a.Config.ProjectID, a.Config.HistoryCollection)
		if err != nil {
			return nil, fmt.Errorf("failed to create history recorder: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return history.NewFirestoreRecorder(client, a.Config.HistoryCollection), nil
	case a.Config.HistoryDB != "":
		rec, err := history.OpenSQLite(a.Config.HistoryDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create history recorder: %w", err)
		}
		a.closers = append(a.closers, rec.Close)
		return rec, nil
	default:
		return history.Nop{}, nil
	}
}

// Close releases every client opened during wiring.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
