package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// Service транспорт доставки сработавших уведомлений через Telegram Bot API
type Service struct {
	bot    BotAPI
	chatID int64
	appURL string
}

// NewService создает новый экземпляр Telegram-транспорта.
// appURL опционален: при пустом значении кнопка открытия приложения
// не добавляется.
func NewService(bot BotAPI, chatID int64, appURL string) *Service {
	return &Service{
		bot:    bot,
		chatID: chatID,
		appURL: appURL,
	}
}

// SendNotification доставляет сработавшее уведомление в настроенный чат
func (s *Service) SendNotification(request *domain.PendingRequest) error {
	if s.chatID == 0 {
		return ErrInvalidChatID
	}
	if request.Body == "" {
		return ErrEmptyMessage
	}

	text := request.Body
	if request.Title != "" {
		text = fmt.Sprintf("*%s*\n%s", escapeMarkdown(request.Title), escapeMarkdown(request.Body))
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if s.appURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("アプリを開く", s.appURL),
			),
		)
	}

	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrSendMessage, err)
	}

	return nil
}

// VerifyChat проверяет доступность чата доставки.
// Используется при запросе разрешения на уведомления.
func (s *Service) VerifyChat() error {
	if s.chatID == 0 {
		return ErrInvalidChatID
	}

	// sendChatAction безвреден и не оставляет сообщений в чате
	action := tgbotapi.NewChatAction(s.chatID, tgbotapi.ChatTyping)
	if _, err := s.bot.Request(action); err != nil {
		return fmt.Errorf("%w: %v", ErrChatUnreachable, err)
	}

	return nil
}

// markdownEscaper экранирует спецсимволы legacy-Markdown разметки
var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}
