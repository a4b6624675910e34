package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/artifacts"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/document"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/fetch"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/store"
	"github.com/stretchr/testify/require"
)

type sentText struct {
	chatID       int64
	text         string
	offerConvert bool
}

type sentDoc struct {
	chatID  int64
	name    string
	caption string
	data    []byte
}

type answer struct {
	queryID string
	text    string
	alert   bool
}

type fakeMessenger struct {
	mu         sync.Mutex
	baseURL    string
	texts      []sentText
	docs       []sentDoc
	answers    []answer
	resolved   []string
	resolveErr error
	emptyURL   bool
	docErr     error
	panicText  bool
}

func (m *fakeMessenger) SendText(_ context.Context, chatID int64, text string, offerConvert bool) error {
	if m.panicText {
		panic("transport exploded")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, sentText{chatID: chatID, text: text, offerConvert: offerConvert})
	return nil
}

func (m *fakeMessenger) SendDocument(_ context.Context, chatID int64, name string, r io.Reader, caption string) error {
	if m.docErr != nil {
		return m.docErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, sentDoc{chatID: chatID, name: name, caption: caption, data: data})
	return nil
}

func (m *fakeMessenger) AnswerTrigger(_ context.Context, queryID, text string, alert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, answer{queryID: queryID, text: text, alert: alert})
	return nil
}

func (m *fakeMessenger) ResolveFileURL(_ context.Context, fileID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved = append(m.resolved, fileID)
	if m.resolveErr != nil {
		return "", m.resolveErr
	}
	if m.emptyURL {
		return "", nil
	}
	return m.baseURL + "/" + fileID, nil
}

func (m *fakeMessenger) lastText() sentText {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.texts) == 0 {
		return sentText{}
	}
	return m.texts[len(m.texts)-1]
}

type fakeRecorder struct {
	mu       sync.Mutex
	started  []models.Conversion
	finished []string
	pages    []int
}

func (r *fakeRecorder) Start(_ context.Context, conv models.Conversion) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, conv)
	return "rec-1", nil
}

func (r *fakeRecorder) Finish(_ context.Context, id string, pages int, errDetails string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, errDetails)
	r.pages = append(r.pages, pages)
	return nil
}

type failingBuilder struct{ err error }

func (b failingBuilder) Build(context.Context, [][]byte) ([]byte, error) { return nil, b.err }

type harness struct {
	bot         *Bot
	messenger   *fakeMessenger
	pending     *store.MemoryStore
	recorder    *fakeRecorder
	assembler   *DocumentAssembler
	collector   *ImageCollector
	artifactDir string
}

type harnessOptions struct {
	maxBytes int64
	builder  DocumentBuilder
}

func newHarness(t *testing.T, images map[string][]byte, opts harnessOptions) *harness {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := images[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)

	if opts.maxBytes == 0 {
		opts.maxBytes = 20 * 1024 * 1024
	}
	if opts.builder == nil {
		opts.builder = document.NewAssembler()
	}

	dir := t.TempDir()
	artifactStore, err := artifacts.NewLocalStore(dir)
	require.NoError(t, err)

	messenger := &fakeMessenger{baseURL: srv.URL}
	pending := store.NewMemoryStore()
	recorder := &fakeRecorder{}
	collector := NewImageCollector(messenger, fetch.NewFetcher(srv.Client(), time.Second, opts.maxBytes), pending)
	assembler := NewDocumentAssembler(messenger, opts.builder, pending, artifactStore, recorder)

	return &harness{
		bot:         NewBot(messenger, collector, assembler),
		messenger:   messenger,
		pending:     pending,
		recorder:    recorder,
		assembler:   assembler,
		collector:   collector,
		artifactDir: dir,
	}
}

func (h *harness) artifactCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(h.artifactDir)
	require.NoError(t, err)
	return len(entries)
}

func photo(userID int64, fileIDs ...string) models.ImageEvent {
	e := models.ImageEvent{UserID: userID, ChatID: userID * 10}
	for i, id := range fileIDs {
		e.Variants = append(e.Variants, models.PhotoVariant{FileID: id, Width: 90 * (i + 1), Height: 90 * (i + 1)})
	}
	return e
}

func convert(userID int64) models.TriggerEvent {
	return models.TriggerEvent{QueryID: "q-" + string(rune('a'+userID%26)), UserID: userID, ChatID: userID * 10, Data: models.ConvertAction}
}

func jpegImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(w/2, h/2, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

var errTransport = errors.New("telegram: Bad Gateway")
