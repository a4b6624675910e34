package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	t.Parallel()

	const limit = 1024
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{'x'}, 100))
	})
	mux.HandleFunc("/exact", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{'x'}, limit))
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{'x'}, limit+1))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.Client(), time.Second, limit)
	testCases := []struct {
		name     string
		path     string
		wantLen  int
		wantKind models.ErrorKind
	}{
		{name: "ok", path: "/ok", wantLen: 100},
		{name: "exactly at limit", path: "/exact", wantLen: limit},
		{name: "over limit", path: "/big", wantKind: models.KindSizeLimit},
		{name: "non-success status", path: "/missing", wantKind: models.KindFetch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := f.Fetch(context.Background(), srv.URL+tc.path)
			if tc.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantKind, models.KindOf(err))
				assert.Nil(t, data)
				return
			}
			require.NoError(t, err)
			assert.Len(t, data, tc.wantLen)
		})
	}
}

func TestFetchTimesOut(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	f := NewFetcher(srv.Client(), 50*time.Millisecond, 1024)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, models.KindFetch, models.KindOf(err))
}

func TestFetchUnreachable(t *testing.T) {
	t.Parallel()

	f := NewFetcher(nil, time.Second, 1024)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/none")
	require.Error(t, err)
	assert.Equal(t, models.KindFetch, models.KindOf(err))
	assert.Equal(t, msgDownloadFailed, models.UserDetail(err))
}

func TestFetchErrorsOmitFileURL(t *testing.T) {
	t.Parallel()

	const filePath = "/file/bot123456:SECRET-TOKEN/photos/file_1.jpg"

	stalled := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/slow") {
			select {
			case <-stalled:
			case <-r.Context().Done():
			}
			return
		}
		http.Error(w, "gone", http.StatusGone)
	}))
	t.Cleanup(func() {
		close(stalled)
		srv.Close()
	})

	testCases := []struct {
		name    string
		url     string
		timeout time.Duration
	}{
		{name: "connection refused", url: "http://127.0.0.1:1" + filePath, timeout: time.Second},
		{name: "timeout", url: srv.URL + "/slow" + filePath, timeout: 50 * time.Millisecond},
		{name: "non-success status", url: srv.URL + filePath, timeout: time.Second},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFetcher(srv.Client(), tc.timeout, 1024)
			_, err := f.Fetch(context.Background(), tc.url)
			require.Error(t, err)
			assert.Equal(t, models.KindFetch, models.KindOf(err))
			assert.NotContains(t, err.Error(), "SECRET-TOKEN")
			assert.NotContains(t, err.Error(), filePath)
			assert.Contains(t, err.Error(), "file_1.jpg")
		})
	}
}
