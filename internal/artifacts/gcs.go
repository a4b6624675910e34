package artifacts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GCSStore keeps artifacts as objects in a Cloud Storage bucket.
type GCSStore struct {
	bucket     *storage.BucketHandle
	maxRetries int
	backoff    time.Duration
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{
		bucket:     client.Bucket(bucket),
		maxRetries: 4,
		backoff:    1 * time.Second,
	}
}

// Write uploads data only if no object with that name exists yet, retrying transient failures.
func (s *GCSStore) Write(ctx context.Context, name string, data []byte) error {
	backoff := s.backoff
	var lastErr error

	for i := 0; i < s.maxRetries; i++ {
		err := s.writeOnce(ctx, name, data)
		if err == nil || errors.Is(err, ErrExists) {
			return err
		}

		lastErr = err
		slog.Warn(
			"Artifact upload failed, will retry.",
			"gcsObject", name,
			"attempt", i+1,
			"maxRetries", s.maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("upload for %s failed after all retries: %w", name, lastErr)
}

func (s *GCSStore) writeOnce(ctx context.Context, name string, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, 50*time.Second)
	defer cancel()

	writer := s.bucket.Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(writeCtx)
	writer.ContentType = "application/pdf"

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return classifyWriteErr(name, err)
	}
	if err := writer.Close(); err != nil {
		return classifyWriteErr(name, err)
	}
	return nil
}

func classifyWriteErr(name string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}
	return fmt.Errorf("failed to write to GCS: %w", err)
}

func (s *GCSStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.bucket.Object(name).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get attrs for %s: %w", name, err)
	}
	return true, nil
}

func (s *GCSStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := s.bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for %s: %w", name, err)
	}
	return r, nil
}

func (s *GCSStore) Delete(ctx context.Context, name string) error {
	err := s.bucket.Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
