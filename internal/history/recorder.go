package history

import (
	"context"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
)

// Recorder keeps an audit trail of conversion attempts.
type Recorder interface {
	// Start stores a new attempt and returns its id.
	Start(ctx context.Context, conv models.Conversion) (string, error)
	// Finish marks the attempt completed, or failed when errDetails is non-empty.
	Finish(ctx context.Context, id string, pageCount int, errDetails string) error
}

// Nop discards all records.
type Nop struct{}

func (Nop) Start(context.Context, models.Conversion) (string, error) { return "", nil }

func (Nop) Finish(context.Context, string, int, string) error { return nil }

func finalStatus(errDetails string) string {
	if errDetails != "" {
		return models.StatusFailed
	}
	return models.StatusCompleted
}
