package trashwarn

import (
	"context"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// NotificationGateway интерфейс общего гейтвея уведомлений
type NotificationGateway interface {
	AuthorizationStatus() domain.AuthorizationStatus
	Schedule(ctx context.Context, request *domain.PendingRequest) error
	CancelByPrefix(ctx context.Context, prefix string) (int, error)
}

// TrashItemProvider интерфейс хранилища элементов корзины
type TrashItemProvider interface {
	// FetchAllTrashItems возвращает все элементы корзины;
	// пустой срез, если корзина пуста
	FetchAllTrashItems(ctx context.Context) ([]domain.TrashItem, error)
}

// SettingsProvider интерфейс синхронного чтения настроек уведомлений
type SettingsProvider interface {
	Settings() domain.Settings
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
