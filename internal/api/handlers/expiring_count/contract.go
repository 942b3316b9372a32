package expiring_count

import "context"

// TrashWarner интерфейс уведомителя об истечении корзины
type TrashWarner interface {
	GetExpiringItemCount(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
