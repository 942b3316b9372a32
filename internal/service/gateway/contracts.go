package gateway

import (
	"context"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// NotificationCenter интерфейс внешнего сервиса доставки уведомлений
type NotificationCenter interface {
	// GetAuthorizationStatus возвращает текущий статус разрешения
	GetAuthorizationStatus(ctx context.Context) (domain.AuthorizationStatus, error)

	// RequestAuthorization запрашивает разрешение на показ уведомлений
	RequestAuthorization(ctx context.Context) (bool, error)

	// Add регистрирует pending-запрос; время доставки дальше контролирует сервис
	Add(ctx context.Context, request *domain.PendingRequest) error

	// GetPendingRequests возвращает все ещё не доставленные запросы
	GetPendingRequests(ctx context.Context) ([]*domain.PendingRequest, error)

	// RemoveByIdentifiers снимает запросы по идентификаторам; отсутствующие игнорируются
	RemoveByIdentifiers(ctx context.Context, identifiers []string) error

	// RemoveByPrefix снимает запросы с идентификаторами, начинающимися
	// с префикса; возвращает число снятых запросов
	RemoveByPrefix(ctx context.Context, prefix string) (int, error)

	// RemoveAll снимает все pending-запросы
	RemoveAll(ctx context.Context) error
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
