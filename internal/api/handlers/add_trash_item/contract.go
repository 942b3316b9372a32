package add_trash_item

import (
	"context"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// TrashStore интерфейс локального индекса корзины
type TrashStore interface {
	Register(ctx context.Context, item domain.TrashItem) (domain.TrashItem, error)
}

// TrashWarner интерфейс актуализации предупреждения об истечении
type TrashWarner interface {
	ScheduleExpirationWarning(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
