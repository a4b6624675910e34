package telegram

import (
	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ToEvent converts an update into a bot event. Updates the bot does not react to yield false.
func ToEvent(u tgbotapi.Update) (any, bool) {
	if q := u.CallbackQuery; q != nil {
		if q.From == nil {
			return nil, false
		}
		chatID := q.From.ID
		if q.Message != nil && q.Message.Chat != nil {
			chatID = q.Message.Chat.ID
		}
		return models.TriggerEvent{
			QueryID: q.ID,
			UserID:  q.From.ID,
			ChatID:  chatID,
			Data:    q.Data,
		}, true
	}

	msg := u.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil, false
	}

	if msg.IsCommand() && msg.Command() == "start" {
		return models.StartEvent{UserID: msg.From.ID, ChatID: msg.Chat.ID}, true
	}

	if msg.Photo != nil {
		variants := make([]models.PhotoVariant, 0, len(msg.Photo))
		for _, p := range msg.Photo {
			variants = append(variants, models.PhotoVariant{
				FileID:   p.FileID,
				Width:    p.Width,
				Height:   p.Height,
				FileSize: p.FileSize,
			})
		}
		return models.ImageEvent{UserID: msg.From.ID, ChatID: msg.Chat.ID, Variants: variants}, true
	}
	return nil, false
}
