package cancel_reminder

import "context"

// ReminderScheduler интерфейс планировщика напоминаний
type ReminderScheduler interface {
	CancelReminder(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
