package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ch      chan tgbotapi.Update
	cfg     tgbotapi.UpdateConfig
	stopped chan struct{}
	once    sync.Once
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan tgbotapi.Update, 16), stopped: make(chan struct{})}
}

func (s *fakeSource) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	s.cfg = cfg
	return s.ch
}

func (s *fakeSource) StopReceivingUpdates() {
	s.once.Do(func() { close(s.stopped) })
}

type recordingHandler struct {
	mu      sync.Mutex
	events  map[int64][]string
	active  map[int64]int
	overlap bool
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{events: map[int64][]string{}, active: map[int64]int{}}
}

func (h *recordingHandler) Handle(_ context.Context, event any) {
	e := event.(models.ImageEvent)
	h.mu.Lock()
	h.active[e.UserID]++
	if h.active[e.UserID] > 1 {
		h.overlap = true
	}
	h.mu.Unlock()

	time.Sleep(time.Millisecond)

	h.mu.Lock()
	h.events[e.UserID] = append(h.events[e.UserID], e.Variants[0].FileID)
	h.active[e.UserID]--
	h.mu.Unlock()
}

func photoUpdate(userID int64, fileID string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:  &tgbotapi.User{ID: userID},
		Chat:  &tgbotapi.Chat{ID: userID},
		Photo: []tgbotapi.PhotoSize{{FileID: fileID}},
	}}
}

func TestPollerKeepsPerUserOrder(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	h := newRecordingHandler()
	p := NewPoller(src, h, 30)

	for _, id := range []string{"a1", "a2", "a3"} {
		src.ch <- photoUpdate(1, id)
	}
	for _, id := range []string{"b1", "b2"} {
		src.ch <- photoUpdate(2, id)
	}
	src.ch <- tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 3}, Chat: &tgbotapi.Chat{ID: 3}, Text: "hi"}}
	close(src.ch)

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 30, src.cfg.Timeout)
	assert.Equal(t, []string{"a1", "a2", "a3"}, h.events[1])
	assert.Equal(t, []string{"b1", "b2"}, h.events[2])
	assert.Empty(t, h.events[3])
	assert.False(t, h.overlap, "tasks of one user must not overlap")
}

func TestPollerStopsOnCancel(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	p := NewPoller(src, newRecordingHandler(), 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}
	select {
	case <-src.stopped:
	default:
		t.Fatal("updates were not stopped")
	}
}
