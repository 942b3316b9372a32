package scan_completed

import (
	"context"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// ScanNotifier интерфейс уведомителя о завершении сканирования
type ScanNotifier interface {
	NotifyScanCompletion(ctx context.Context, itemCount int, totalSize int64) error
	State() domain.SchedulerState
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
