package check_storage

import "context"

// StorageAlertScheduler интерфейс планировщика предупреждений о заполнении хранилища
type StorageAlertScheduler interface {
	CheckAndScheduleIfNeeded(ctx context.Context) (bool, error)
	LastUsagePercentage() float64
	LastAvailableSpace() int64
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
