package worker

import (
	"context"
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// PendingRepository интерфейс для работы с реестром pending-запросов
type PendingRepository interface {
	// GetByIdentifier получает pending-запрос по идентификатору
	GetByIdentifier(ctx context.Context, identifier string) (*domain.PendingRequest, error)

	// ListDue возвращает запросы с наступившим временем доставки
	ListDue(ctx context.Context, now time.Time) ([]*domain.PendingRequest, error)

	// DeleteByIdentifiers удаляет доставленные запросы
	DeleteByIdentifiers(ctx context.Context, identifiers []string) error
}

// DueSweeper интерфейс добора просроченных запросов, оставшихся без
// задачи доставки
type DueSweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

// DeliveryService интерфейс отправки уведомления пользователю
type DeliveryService interface {
	// SendNotification доставляет уведомление через транспорт
	SendNotification(request *domain.PendingRequest) error
}

// StorageChecker интерфейс периодической проверки заполненности хранилища
type StorageChecker interface {
	CheckAndScheduleIfNeeded(ctx context.Context) (bool, error)
}

// TrashWarner интерфейс обновления предупреждения об истечении корзины
type TrashWarner interface {
	ScheduleExpirationWarning(ctx context.Context) error
}

// TrashPurger интерфейс очистки окончательно истёкших элементов корзины
type TrashPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
