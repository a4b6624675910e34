package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotAPI struct {
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	fileURL   string
	err       error
}

func (f *fakeBotAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func (f *fakeBotAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requested = append(f.requested, c)
	return &tgbotapi.APIResponse{Ok: f.err == nil}, f.err
}

func (f *fakeBotAPI) GetFileDirectURL(fileID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.fileURL + fileID, nil
}

func TestClientSendTextWithConvertButton(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	c := NewClient(api)

	require.NoError(t, c.SendText(context.Background(), 5, "hi", true))
	require.NoError(t, c.SendText(context.Background(), 5, "plain", false))

	require.Len(t, api.sent, 2)
	withButton := api.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(5), withButton.ChatID)
	markup, ok := withButton.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	button := markup.InlineKeyboard[0][0]
	assert.Equal(t, services.ConvertButtonText, button.Text)
	require.NotNil(t, button.CallbackData)
	assert.Equal(t, models.ConvertAction, *button.CallbackData)

	assert.Nil(t, api.sent[1].(tgbotapi.MessageConfig).ReplyMarkup)
}

func TestClientSendDocument(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	c := NewClient(api)

	require.NoError(t, c.SendDocument(context.Background(), 9, "temp_1_2.pdf", strings.NewReader("%PDF"), "ready"))

	require.Len(t, api.sent, 1)
	doc := api.sent[0].(tgbotapi.DocumentConfig)
	assert.Equal(t, int64(9), doc.ChatID)
	assert.Equal(t, "ready", doc.Caption)
	file, ok := doc.File.(tgbotapi.FileReader)
	require.True(t, ok)
	assert.Equal(t, "temp_1_2.pdf", file.Name)
}

func TestClientAnswerTrigger(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	c := NewClient(api)

	require.NoError(t, c.AnswerTrigger(context.Background(), "q1", "", false))
	require.NoError(t, c.AnswerTrigger(context.Background(), "q2", "oops", true))

	require.Len(t, api.requested, 2)
	quiet := api.requested[0].(tgbotapi.CallbackConfig)
	assert.Equal(t, "q1", quiet.CallbackQueryID)
	assert.False(t, quiet.ShowAlert)
	loud := api.requested[1].(tgbotapi.CallbackConfig)
	assert.Equal(t, "oops", loud.Text)
	assert.True(t, loud.ShowAlert)
}

func TestClientResolveFileURL(t *testing.T) {
	t.Parallel()

	c := NewClient(&fakeBotAPI{fileURL: "https://files.example/"})
	url, err := c.ResolveFileURL(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/abc", url)

	failing := NewClient(&fakeBotAPI{err: errors.New("Bad Request: file is too big")})
	_, err = failing.ResolveFileURL(context.Background(), "abc")
	assert.ErrorContains(t, err, "failed to get file")
}

func TestClientHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	c := NewClient(api)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.SendText(ctx, 1, "x", false), context.Canceled)
	assert.Empty(t, api.sent)
}
