package list_pending

import (
	"context"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// NotificationGateway интерфейс шлюза уведомлений
type NotificationGateway interface {
	ListPending(ctx context.Context) ([]*domain.PendingRequest, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
