package remove_trash_item

import "context"

// TrashStore интерфейс локального индекса корзины
type TrashStore interface {
	Remove(ctx context.Context, id string) error
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
