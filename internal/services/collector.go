package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/store"
)

// ImageCollector accepts inbound photos and appends them to the sender's pending sequence.
type ImageCollector struct {
	messenger Messenger
	fetcher   ImageFetcher
	pending   store.PendingStore
}

func NewImageCollector(messenger Messenger, fetcher ImageFetcher, pending store.PendingStore) *ImageCollector {
	return &ImageCollector{
		messenger: messenger,
		fetcher:   fetcher,
		pending:   pending,
	}
}

// Process handles one inbound photo. On failure the pending sequence is unchanged
// and the user is told what went wrong.
func (c *ImageCollector) Process(ctx context.Context, e models.ImageEvent) error {
	logCtx := slog.With("userId", e.UserID, "chatId", e.ChatID)

	blob, err := c.retrieve(ctx, e)
	if err != nil {
		logCtx.Error("Failed to receive image", "error", err, "kind", models.KindOf(err))
		if sendErr := c.messenger.SendText(ctx, e.ChatID, imageFailedMessage(models.UserDetail(err)), false); sendErr != nil {
			logCtx.Error("Failed to report image failure to user", "error", sendErr)
		}
		return err
	}

	count := c.pending.Append(e.UserID, blob)
	logCtx.Info("Image appended.", "pendingCount", count, "bytes", len(blob))

	if err := c.messenger.SendText(ctx, e.ChatID, imageAcceptedMessage(count), true); err != nil {
		logCtx.Error("Failed to confirm image", "error", err)
		return models.UnexpectedError(msgAnswerFailed, fmt.Errorf("failed to send confirmation: %w", err))
	}
	return nil
}

func (c *ImageCollector) retrieve(ctx context.Context, e models.ImageEvent) ([]byte, error) {
	if len(e.Variants) == 0 {
		return nil, models.RetrievalError(msgNoPhoto, fmt.Errorf("image event carries no variants"))
	}
	// Variants are ordered by size; the last one is the largest.
	variant := e.Variants[len(e.Variants)-1]

	url, err := c.messenger.ResolveFileURL(ctx, variant.FileID)
	if err != nil {
		return nil, models.RetrievalError(msgNoFileLocation, fmt.Errorf("failed to resolve file %s: %w", variant.FileID, err))
	}
	if url == "" {
		return nil, models.RetrievalError(msgNoFileLocation, fmt.Errorf("file %s has no download location", variant.FileID))
	}

	return c.fetcher.Fetch(ctx, url)
}
