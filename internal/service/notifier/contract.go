package notifier

import (
	"context"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// PendingStore интерфейс хранилища pending-запросов
type PendingStore interface {
	Save(ctx context.Context, request *domain.PendingRequest) error
	List(ctx context.Context) ([]*domain.PendingRequest, error)
	DeleteByIdentifiers(ctx context.Context, identifiers []string) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	DeleteAll(ctx context.Context) error
}

// AuthorizationStore интерфейс персистентного статуса разрешения
type AuthorizationStore interface {
	Authorization() domain.AuthorizationStatus
	SetAuthorization(status domain.AuthorizationStatus) error
}

// ChatVerifier интерфейс проверки доступности канала доставки
type ChatVerifier interface {
	VerifyChat() error
}

// Dispatcher интерфейс планировщика отложенной доставки
type Dispatcher interface {
	Register(request *domain.PendingRequest)
	Unregister(identifier string)
	UnregisterByPrefix(prefix string)
	UnregisterAll()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
