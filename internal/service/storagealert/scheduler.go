package storagealert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/quiethours"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/pkg/ptr"
)

// fireDelay задержка near-immediate доставки алерта
const fireDelay = 5 * time.Second

// Scheduler планировщик порогового алерта о заполнении хранилища.
// Проверку запускают и HTTP-обработчик, и фоновый poller, поэтому
// методы сериализуются мьютексом.
type Scheduler struct {
	gateway  NotificationGateway
	storage  StorageInfoProvider
	settings SettingsProvider
	logger   Logger
	now      func() time.Time

	mu                  sync.Mutex
	state               domain.SchedulerState
	lastUsagePercentage float64
	lastAvailableSpace  int64
	lastCheckTime       *time.Time
}

// NewScheduler создает планировщик storage-алертов
func NewScheduler(gw NotificationGateway, storage StorageInfoProvider, settings SettingsProvider, logger Logger) *Scheduler {
	return &Scheduler{
		gateway:  gw,
		storage:  storage,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckAndScheduleIfNeeded опрашивает хранилище и планирует алерт при
// достижении порога. Возвращает true, если этим вызовом запланирован
// новый алерт.
//
// Ниже порога существующий алерт снимается (состояние восстановилось),
// это не ошибка. Повторная проверка при уже ожидающем алерте ничего
// не перепланирует: периодический опрос не должен спамить гейтвей.
// Попадание текущего момента в тихие часы является ошибкой, а не
// переносом: алерт о заполнении хранилища чувствителен ко времени.
func (s *Scheduler) CheckAndScheduleIfNeeded(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.settings.Settings()

	if !settings.Enabled || !settings.StorageAlertEnabled {
		return false, s.recordError(gateway.ErrNotificationsDisabled)
	}
	if !s.gateway.AuthorizationStatus().IsGranted() {
		return false, s.recordError(gateway.ErrPermissionDenied)
	}

	info, err := s.storage.GetDeviceStorageInfo(ctx)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrStorageInfoUnavailable, err)
		return false, s.recordError(wrapped)
	}

	now := s.now()
	usage := info.UsagePercentage()

	s.lastUsagePercentage = usage
	s.lastAvailableSpace = info.AvailableCapacity
	s.lastCheckTime = ptr.Ptr(now)

	if usage < settings.StorageAlertThreshold {
		// Заполнение вернулось под порог: снимаем устаревший алерт
		if err := s.gateway.Cancel(ctx, domain.IdentifierStorageAlert); err != nil {
			return false, s.recordError(fmt.Errorf("CheckAndScheduleIfNeeded - cancel stale alert: %w", err))
		}
		s.state.Reset()
		s.logger.Info("Storage usage %.2f below threshold %.2f, no alert needed", usage, settings.StorageAlertThreshold)
		return false, nil
	}

	if quiethours.Contains(now, settings.QuietHoursEnabled, settings.QuietHoursStart, settings.QuietHoursEnd) {
		return false, s.recordError(quiethours.ErrQuietHoursActive)
	}

	pending, err := s.gateway.HasPending(ctx, domain.IdentifierStorageAlert)
	if err != nil {
		return false, s.recordError(fmt.Errorf("CheckAndScheduleIfNeeded - pending check: %w", err))
	}
	if pending {
		// Алерт уже ожидает доставки: оставляем его как есть
		s.logger.Info("Storage alert already pending, skipping")
		return false, nil
	}

	fireAt := now.Add(fireDelay)
	request := &domain.PendingRequest{
		Identifier: domain.IdentifierStorageAlert,
		Title:      "ストレージ容量が不足しています",
		Body:       fmt.Sprintf("ストレージの%.0f%%が使用されています。写真を整理して空き容量を増やしましょう", usage*100),
		Category:   domain.CategoryStorageAlert,
		FireAt:     fireAt,
		UserInfo: domain.UserInfo{
			"usage_percentage":     fmt.Sprintf("%.4f", usage),
			"available_capacity":   fmt.Sprintf("%d", info.AvailableCapacity),
			"reclaimable_capacity": fmt.Sprintf("%d", info.ReclaimableCapacity),
		},
	}

	if err := s.gateway.Schedule(ctx, request); err != nil {
		s.state.MarkFailed(err)
		return false, err
	}

	s.state.MarkScheduled(fireAt)

	s.logger.Info("Storage alert scheduled (usage: %.2f, threshold: %.2f)", usage, settings.StorageAlertThreshold)
	return true, nil
}

// CancelAlert снимает ожидающий алерт и сбрасывает состояние
func (s *Scheduler) CancelAlert(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.gateway.Cancel(ctx, domain.IdentifierStorageAlert)

	s.state.Reset()

	if err != nil {
		return fmt.Errorf("CancelAlert - gateway error: %w", err)
	}
	return nil
}

// State возвращает копию текущего состояния планировщика
func (s *Scheduler) State() domain.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastUsagePercentage возвращает заполненность хранилища при последней проверке
func (s *Scheduler) LastUsagePercentage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsagePercentage
}

// LastAvailableSpace возвращает свободный объём при последней проверке
func (s *Scheduler) LastAvailableSpace() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAvailableSpace
}

// LastCheckTime возвращает момент последней успешной проверки хранилища
func (s *Scheduler) LastCheckTime() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCheckTime
}

func (s *Scheduler) recordError(err error) error {
	s.state.LastError = err
	return err
}
