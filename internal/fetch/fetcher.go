package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
)

// ErrImageTooLarge indicates the downloaded image exceeds the configured limit.
var ErrImageTooLarge = errors.New("image too large")

// Fetcher downloads image bytes with a bounded wait and a size cap.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// NewFetcher creates a Fetcher. A nil client means http.DefaultClient.
func NewFetcher(client *http.Client, timeout time.Duration, maxBytes int64) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:   client,
		timeout:  timeout,
		maxBytes: maxBytes,
	}
}

// Fetch downloads rawURL. Network failures, timeouts and non-2xx statuses are fetch errors;
// bodies larger than the limit are size-limit errors. Errors never carry the URL, which holds
// the bot token for Telegram file links.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, models.FetchError(msgDownloadFailed, fmt.Errorf("failed to build request: %w", stripURL(err)))
	}
	file := path.Base(req.URL.Path)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, models.FetchError(msgDownloadFailed, fmt.Errorf("failed to fetch image %s: %w", file, stripURL(err)))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.FetchError(
			statusMessage(resp.StatusCode),
			fmt.Errorf("unexpected status %s for image %s", resp.Status, file),
		)
	}

	data, err := readAllLimited(resp.Body, f.maxBytes)
	if errors.Is(err, ErrImageTooLarge) {
		return nil, models.SizeLimitError(msgImageTooLarge, fmt.Errorf("image %s: %w", file, err))
	}
	if err != nil {
		return nil, models.FetchError(msgDownloadFailed, fmt.Errorf("failed to read image %s: %w", file, stripURL(err)))
	}
	return data, nil
}

// stripURL drops the request URL from errors returned by the HTTP client.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}

func readAllLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: max=%d bytes", ErrImageTooLarge, max)
	}
	return data, nil
}
