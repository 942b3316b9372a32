package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/quiethours"
)

// DefaultFireHour локальный час отправки напоминания
const DefaultFireHour = 10

// Scheduler планировщик периодических напоминаний об очистке.
// Методы сериализуются мьютексом: HTTP-обработчики могут вызывать
// планирование и отмену конкурентно.
type Scheduler struct {
	gateway  NotificationGateway
	settings SettingsProvider
	logger   Logger
	fireHour int
	now      func() time.Time

	mu           sync.Mutex
	state        domain.SchedulerState
	lastInterval domain.ReminderInterval
}

// NewScheduler создает планировщик напоминаний.
// fireHour вне диапазона [0, 23] заменяется значением по умолчанию.
func NewScheduler(gw NotificationGateway, settings SettingsProvider, logger Logger, fireHour int) *Scheduler {
	if fireHour < 0 || fireHour > 23 {
		fireHour = DefaultFireHour
	}
	return &Scheduler{
		gateway:  gw,
		settings: settings,
		logger:   logger,
		fireHour: fireHour,
		now:      time.Now,
	}
}

// ScheduleReminder планирует следующее напоминание согласно текущим настройкам.
// Существующее напоминание снимается и заменяется новым.
// Порядок проверок: глобальный флаг, флаг категории, разрешение.
func (s *Scheduler) ScheduleReminder(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.scheduleLocked(ctx)
}

// RescheduleReminder снимает текущее напоминание и планирует новое.
// Два последовательных шага: между ними pending-напоминаний нет.
func (s *Scheduler) RescheduleReminder(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cancelLocked(ctx); err != nil {
		return fmt.Errorf("RescheduleReminder - cancel: %w", err)
	}
	return s.scheduleLocked(ctx)
}

// CancelReminder снимает напоминание и безусловно сбрасывает состояние
func (s *Scheduler) CancelReminder(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancelLocked(ctx)
}

// State возвращает копию текущего состояния планировщика
func (s *Scheduler) State() domain.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastScheduledInterval возвращает интервал последнего успешного планирования
func (s *Scheduler) LastScheduledInterval() domain.ReminderInterval {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInterval
}

func (s *Scheduler) scheduleLocked(ctx context.Context) error {
	settings := s.settings.Settings()

	if !settings.Enabled {
		return s.recordError(gateway.ErrNotificationsDisabled)
	}
	if !settings.ReminderEnabled || settings.ReminderInterval.IsNever() {
		return s.recordError(gateway.ErrNotificationsDisabled)
	}
	if !s.gateway.AuthorizationStatus().IsGranted() {
		return s.recordError(gateway.ErrPermissionDenied)
	}

	fireAt := s.nextFireDate(s.now(), settings.ReminderInterval)

	// Тихие часы применяются к часу вычисленной даты, а не к моменту вызова
	fireAt = quiethours.Adjust(fireAt, settings.QuietHoursEnabled, settings.QuietHoursStart, settings.QuietHoursEnd)

	if err := s.gateway.Cancel(ctx, domain.IdentifierReminder); err != nil {
		s.state.MarkFailed(err)
		return fmt.Errorf("ScheduleReminder - cancel previous: %w", err)
	}

	request := &domain.PendingRequest{
		Identifier: domain.IdentifierReminder,
		Title:      "そろそろ写真の整理をしませんか？",
		Body:       "不要な写真を削除して、ストレージを確保しましょう",
		Category:   domain.CategoryReminder,
		FireAt:     fireAt,
		UserInfo: domain.UserInfo{
			"interval": string(settings.ReminderInterval),
		},
	}

	if err := s.gateway.Schedule(ctx, request); err != nil {
		s.state.MarkFailed(err)
		return err
	}

	s.state.MarkScheduled(fireAt)
	s.lastInterval = settings.ReminderInterval

	s.logger.Info("Reminder scheduled for %s (interval: %s)", fireAt.Format(time.RFC3339), settings.ReminderInterval)
	return nil
}

func (s *Scheduler) cancelLocked(ctx context.Context) error {
	err := s.gateway.Cancel(ctx, domain.IdentifierReminder)

	s.state.Reset()
	s.lastInterval = ""

	if err != nil {
		return fmt.Errorf("CancelReminder - gateway error: %w", err)
	}

	s.logger.Info("Reminder cancelled")
	return nil
}

// nextFireDate вычисляет следующий момент отправки: сегодня в fireHour
// (или завтра, если этот момент уже прошёл) плюс смещение интервала
func (s *Scheduler) nextFireDate(now time.Time, interval domain.ReminderInterval) time.Time {
	base := time.Date(now.Year(), now.Month(), now.Day(), s.fireHour, 0, 0, 0, now.Location())
	if !base.After(now) {
		base = base.AddDate(0, 0, 1)
	}
	return interval.AddTo(base)
}

func (s *Scheduler) recordError(err error) error {
	s.state.LastError = err
	return err
}
