package schedule_trash_warning

import (
	"context"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// TrashWarner интерфейс уведомителя об истечении корзины
type TrashWarner interface {
	ScheduleExpirationWarning(ctx context.Context) error
	State() domain.SchedulerState
	LastWarnedItemID() string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
