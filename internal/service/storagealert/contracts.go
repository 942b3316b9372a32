package storagealert

import (
	"context"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// NotificationGateway интерфейс общего гейтвея уведомлений
type NotificationGateway interface {
	AuthorizationStatus() domain.AuthorizationStatus
	Schedule(ctx context.Context, request *domain.PendingRequest) error
	Cancel(ctx context.Context, identifier string) error
	HasPending(ctx context.Context, identifier string) (bool, error)
}

// StorageInfoProvider интерфейс подсистемы измерения хранилища
type StorageInfoProvider interface {
	GetDeviceStorageInfo(ctx context.Context) (*domain.DeviceStorageInfo, error)
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
