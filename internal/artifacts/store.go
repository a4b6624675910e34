package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrExists is returned when an artifact name is already taken.
var ErrExists = errors.New("artifact already exists")

// Store is ephemeral storage for generated documents awaiting delivery.
type Store interface {
	Write(ctx context.Context, name string, data []byte) error
	Exists(ctx context.Context, name string) (bool, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes the artifact. Deleting a missing artifact is not an error.
	Delete(ctx context.Context, name string) error
}

// Name returns the artifact name for a user's document generated at t.
func Name(userID int64, t time.Time) string {
	return fmt.Sprintf("temp_%d_%d.pdf", userID, t.UnixMilli())
}
