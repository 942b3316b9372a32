package telegram

import (
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// botStub реализация BotAPI с записью отправленных сообщений
type botStub struct {
	sent       []tgbotapi.Chattable
	sendErr    error
	requestErr error
}

func (b *botStub) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if b.sendErr != nil {
		return tgbotapi.Message{}, b.sendErr
	}
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func (b *botStub) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if b.requestErr != nil {
		return nil, b.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func testRequest() *domain.PendingRequest {
	return &domain.PendingRequest{
		Identifier: domain.IdentifierReminder,
		Title:      "title",
		Body:       "body",
		Category:   domain.CategoryReminder,
		FireAt:     time.Now(),
	}
}

func TestSendNotification(t *testing.T) {
	bot := &botStub{}
	svc := NewService(bot, 123, "https://example.com/app")

	require.NoError(t, svc.SendNotification(testRequest()))
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(123), msg.ChatID)
	assert.Contains(t, msg.Text, "*title*")
	assert.Contains(t, msg.Text, "body")
	assert.NotNil(t, msg.ReplyMarkup)
}

func TestSendNotification_NoButtonWithoutAppURL(t *testing.T) {
	bot := &botStub{}
	svc := NewService(bot, 123, "")

	require.NoError(t, svc.SendNotification(testRequest()))

	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Nil(t, msg.ReplyMarkup)
}

func TestSendNotification_EscapesMarkdown(t *testing.T) {
	bot := &botStub{}
	svc := NewService(bot, 123, "")

	request := testRequest()
	request.Body = "file_name*with[markdown"
	require.NoError(t, svc.SendNotification(request))

	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "file\\_name\\*with\\[markdown")
}

func TestSendNotification_Validation(t *testing.T) {
	bot := &botStub{}

	noChat := NewService(bot, 0, "")
	assert.ErrorIs(t, noChat.SendNotification(testRequest()), ErrInvalidChatID)

	svc := NewService(bot, 123, "")
	empty := testRequest()
	empty.Body = ""
	assert.ErrorIs(t, svc.SendNotification(empty), ErrEmptyMessage)
}

func TestSendNotification_SendErrorWrapped(t *testing.T) {
	bot := &botStub{sendErr: errors.New("телеграм недоступен")}
	svc := NewService(bot, 123, "")

	err := svc.SendNotification(testRequest())

	assert.ErrorIs(t, err, ErrSendMessage)
}

func TestVerifyChat(t *testing.T) {
	assert.NoError(t, NewService(&botStub{}, 123, "").VerifyChat())
	assert.ErrorIs(t, NewService(&botStub{}, 0, "").VerifyChat(), ErrInvalidChatID)

	unreachable := NewService(&botStub{requestErr: errors.New("chat not found")}, 123, "")
	assert.ErrorIs(t, unreachable.VerifyChat(), ErrChatUnreachable)
}
