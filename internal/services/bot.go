package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/store"
	"github.com/google/uuid"
)

// Bot routes inbound events to the collector and the assembler.
// Each call to Handle is an isolated task: its failures are logged and never escape.
type Bot struct {
	messenger Messenger
	collector *ImageCollector
	assembler *DocumentAssembler
	locks     *store.UserLocks
}

func NewBot(messenger Messenger, collector *ImageCollector, assembler *DocumentAssembler) *Bot {
	return &Bot{
		messenger: messenger,
		collector: collector,
		assembler: assembler,
		locks:     store.NewUserLocks(),
	}
}

// EventUser returns the user an event belongs to.
func EventUser(event any) (int64, bool) {
	switch e := event.(type) {
	case models.StartEvent:
		return e.UserID, true
	case models.ImageEvent:
		return e.UserID, true
	case models.TriggerEvent:
		return e.UserID, true
	default:
		return 0, false
	}
}

// Handle processes one event while holding the user's lock.
func (b *Bot) Handle(ctx context.Context, event any) {
	userID, ok := EventUser(event)
	if !ok {
		slog.Debug("Ignoring unsupported event.", "type", fmt.Sprintf("%T", event))
		return
	}
	logCtx := slog.With("userId", userID, "taskId", uuid.NewString())

	unlock := b.locks.Lock(userID)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			logCtx.Error("Recovered from panic in event handler", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if err := b.dispatch(ctx, event); err != nil {
		logCtx.Warn("Event handling finished with error", "error", err, "kind", models.KindOf(err))
		return
	}
	logCtx.Debug("Event handled.")
}

func (b *Bot) dispatch(ctx context.Context, event any) error {
	switch e := event.(type) {
	case models.StartEvent:
		return b.messenger.SendText(ctx, e.ChatID, msgGreeting, false)
	case models.ImageEvent:
		return b.collector.Process(ctx, e)
	case models.TriggerEvent:
		if e.Data != models.ConvertAction {
			return b.messenger.AnswerTrigger(ctx, e.QueryID, "", false)
		}
		return b.assembler.Process(ctx, e)
	}
	return nil
}
