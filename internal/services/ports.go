package services

import (
	"context"
	"io"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/document"
)

// Messenger is the messaging transport the bot talks through.
type Messenger interface {
	// SendText sends text to a chat. offerConvert attaches the "create PDF" button.
	SendText(ctx context.Context, chatID int64, text string, offerConvert bool) error
	SendDocument(ctx context.Context, chatID int64, name string, r io.Reader, caption string) error
	// AnswerTrigger acknowledges a pressed button; text may be empty.
	AnswerTrigger(ctx context.Context, queryID, text string, alert bool) error
	// ResolveFileURL returns a downloadable URL for an inbound file reference.
	ResolveFileURL(ctx context.Context, fileID string) (string, error)
}

// ImageFetcher downloads raw image bytes.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DocumentBuilder turns ordered image blobs into a serialized document.
type DocumentBuilder interface {
	Build(ctx context.Context, blobs [][]byte) ([]byte, error)
}

// pageInspector reports per-page dimensions of a built document.
type pageInspector func(pdf []byte) ([]document.Dim, error)
