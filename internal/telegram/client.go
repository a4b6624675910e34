package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botAPI is the subset of tgbotapi.BotAPI the client uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Dial authenticates against the Bot API at endpoint.
func Dial(token, endpoint string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot client: %w", err)
	}
	return api, nil
}

// Client implements services.Messenger over the Telegram Bot API.
type Client struct {
	api botAPI
}

var _ services.Messenger = (*Client)(nil)

func NewClient(api botAPI) *Client {
	return &Client{api: api}
}

func convertKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(services.ConvertButtonText, models.ConvertAction),
		),
	)
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string, offerConvert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if offerConvert {
		msg.ReplyMarkup = convertKeyboard()
	}
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (c *Client) SendDocument(ctx context.Context, chatID int64, name string, r io.Reader, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{Name: name, Reader: r})
	doc.Caption = caption
	if _, err := c.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

func (c *Client) AnswerTrigger(ctx context.Context, queryID, text string, alert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cb := tgbotapi.NewCallback(queryID, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(queryID, text)
	}
	if _, err := c.api.Request(cb); err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

func (c *Client) ResolveFileURL(ctx context.Context, fileID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to get file: %w", err)
	}
	return url, nil
}

// SetWebhook registers url as the bot's webhook.
func SetWebhook(api *tgbotapi.BotAPI, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes any registered webhook so that long polling works.
func DeleteWebhook(api *tgbotapi.BotAPI, dropPending bool) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: dropPending}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}
