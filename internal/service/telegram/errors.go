package telegram

import "errors"

var (
	// ErrSendMessage возвращается при ошибке отправки сообщения
	ErrSendMessage = errors.New("service.telegram: failed to send message")

	// ErrInvalidChatID возвращается при некорректном chat_id
	ErrInvalidChatID = errors.New("service.telegram: invalid chat_id")

	// ErrEmptyMessage возвращается при пустом тексте уведомления
	ErrEmptyMessage = errors.New("service.telegram: notification body is empty")

	// ErrChatUnreachable возвращается, когда чат доставки недоступен боту
	ErrChatUnreachable = errors.New("service.telegram: delivery chat is unreachable")
)
