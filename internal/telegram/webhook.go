package telegram

import (
	"encoding/json"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookHandler receives updates pushed by Telegram and handles each one synchronously.
type WebhookHandler struct {
	handler Handler
}

func NewWebhookHandler(handler Handler) *WebhookHandler {
	return &WebhookHandler{handler: handler}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		slog.Warn("Could not decode update", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	event, ok := ToEvent(update)
	if ok {
		h.handler.Handle(r.Context(), event)
	} else {
		slog.Debug("Skipping update.", "updateId", update.UpdateID)
	}
	// Failures are reported to the user by the bot; redelivery would only repeat them.
	w.WriteHeader(http.StatusOK)
}
