package schedule_reminder

import (
	"context"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// ReminderScheduler интерфейс планировщика напоминаний
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context) error
	State() domain.SchedulerState
	LastScheduledInterval() domain.ReminderInterval
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
