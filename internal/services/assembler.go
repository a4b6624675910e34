package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/artifacts"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/document"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/history"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/store"
)

// DocumentAssembler turns a user's pending images into a PDF and delivers it.
type DocumentAssembler struct {
	messenger Messenger
	builder   DocumentBuilder
	inspect   pageInspector
	pending   store.PendingStore
	artifacts artifacts.Store
	recorder  history.Recorder
	now       func() time.Time
}

func NewDocumentAssembler(
	messenger Messenger,
	builder DocumentBuilder,
	pending store.PendingStore,
	artifactStore artifacts.Store,
	recorder history.Recorder,
) *DocumentAssembler {
	if recorder == nil {
		recorder = history.Nop{}
	}
	return &DocumentAssembler{
		messenger: messenger,
		builder:   builder,
		inspect:   document.Inspect,
		pending:   pending,
		artifacts: artifactStore,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Process handles a convert trigger. Whatever the outcome, the user's pending images
// are discarded once the attempt is over and any transient artifact is removed.
func (a *DocumentAssembler) Process(ctx context.Context, e models.TriggerEvent) error {
	logCtx := slog.With("userId", e.UserID, "chatId", e.ChatID, "queryId", e.QueryID)

	blobs := a.pending.Get(e.UserID)
	if len(blobs) == 0 {
		logCtx.Info("Convert requested with no pending images.")
		if err := a.messenger.AnswerTrigger(ctx, e.QueryID, "", false); err != nil {
			logCtx.Warn("Failed to acknowledge trigger", "error", err)
		}
		if err := a.messenger.SendText(ctx, e.ChatID, msgNeedImage, false); err != nil {
			logCtx.Error("Failed to send empty-state message", "error", err)
			return models.UnexpectedError(msgAnswerFailed, fmt.Errorf("failed to send empty-state message: %w", err))
		}
		return nil
	}

	startedAt := a.now()
	artifactName := artifacts.Name(e.UserID, startedAt)
	defer func() {
		a.cleanup(logCtx, artifactName)
		a.pending.Clear(e.UserID)
		logCtx.Info("Pending images cleared.")
	}()

	recordID, err := a.recorder.Start(ctx, models.Conversion{
		UserID:       e.UserID,
		ChatID:       e.ChatID,
		ImageCount:   len(blobs),
		Status:       models.StatusAssembling,
		ArtifactName: artifactName,
		CreatedAt:    startedAt,
	})
	if err != nil {
		logCtx.Warn("Failed to record conversion start", "error", err)
	}

	pages, err := a.assemble(ctx, logCtx, e, blobs, artifactName)

	errDetails := ""
	if err != nil {
		errDetails = err.Error()
	}
	if recErr := a.recorder.Finish(ctx, recordID, pages, errDetails); recErr != nil {
		logCtx.Warn("Failed to record conversion result", "error", recErr)
	}

	if err != nil {
		logCtx.Error("Failed to assemble document", "error", err, "kind", models.KindOf(err))
		if ackErr := a.messenger.AnswerTrigger(ctx, e.QueryID, msgAnswerFailed, true); ackErr != nil {
			logCtx.Warn("Failed to acknowledge trigger as failed", "error", ackErr)
		}
		if sendErr := a.messenger.SendText(ctx, e.ChatID, assemblyFailedMessage(models.UserDetail(err)), false); sendErr != nil {
			logCtx.Error("Failed to report assembly failure to user", "error", sendErr)
		}
		return err
	}

	logCtx.Info("Document delivered.", "pageCount", pages, "artifact", artifactName)
	return nil
}

// assemble runs the build-persist-deliver steps and returns the page count of the built document.
func (a *DocumentAssembler) assemble(
	ctx context.Context,
	logCtx *slog.Logger,
	e models.TriggerEvent,
	blobs [][]byte,
	name string,
) (int, error) {
	if err := a.messenger.SendText(ctx, e.ChatID, msgAssemblyStarted, false); err != nil {
		return 0, models.UnexpectedError(msgAnswerFailed, fmt.Errorf("failed to announce assembly: %w", err))
	}

	pdf, err := a.builder.Build(ctx, blobs)
	if err != nil {
		return 0, err
	}

	pages := len(blobs)
	if dims, err := a.inspect(pdf); err != nil {
		logCtx.Warn("Failed to inspect assembled document", "error", err)
	} else {
		pages = len(dims)
		logCtx.Info("Document assembled.", "pageCount", pages, "bytes", len(pdf))
	}

	if err := a.artifacts.Write(ctx, name, pdf); err != nil {
		return pages, models.UnexpectedError(msgArtifactSaveFailed, fmt.Errorf("failed to persist artifact: %w", err))
	}

	rc, err := a.artifacts.Open(ctx, name)
	if err != nil {
		return pages, models.UnexpectedError(msgArtifactSaveFailed, fmt.Errorf("failed to reopen artifact: %w", err))
	}
	defer rc.Close()

	if err := a.messenger.SendDocument(ctx, e.ChatID, name, rc, msgDocumentCaption); err != nil {
		return pages, models.UnexpectedError(msgDeliveryFailed, fmt.Errorf("failed to deliver document: %w", err))
	}

	if err := a.messenger.AnswerTrigger(ctx, e.QueryID, msgAnswerSuccess, false); err != nil {
		return pages, models.UnexpectedError(msgAnswerFailed, fmt.Errorf("failed to acknowledge trigger: %w", err))
	}
	return pages, nil
}

// cleanup removes the transient artifact if one was written. Failures are logged only.
func (a *DocumentAssembler) cleanup(logCtx *slog.Logger, name string) {
	// The request context may already be cancelled; cleanup must still run.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exists, err := a.artifacts.Exists(ctx, name)
	if err != nil {
		logCtx.Error("Failed to check transient artifact", "error", err, "artifact", name)
		return
	}
	if !exists {
		return
	}
	if err := a.artifacts.Delete(ctx, name); err != nil {
		logCtx.Error("Failed to delete transient artifact", "error", err, "artifact", name)
	}
}
