package scancomplete

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

// DefaultFireDelay задержка one-shot уведомления после завершения сканирования
const DefaultFireDelay = 5 * time.Second

// Notifier отправитель сводки по завершении сканирования.
// Методы сериализуются мьютексом: два конкурентных завершения
// сканирования не должны гоняться за одной pending-сводкой.
type Notifier struct {
	gateway   NotificationGateway
	settings  SettingsProvider
	logger    Logger
	fireDelay time.Duration
	now       func() time.Time

	mu                  sync.Mutex
	state               domain.SchedulerState
	lastItemCount       int
	lastTotalSize       int64
	lastNotifiedAt      *time.Time
	wasNotificationSent bool
}

// NewNotifier создает отправитель сводок сканирования.
// Неположительная задержка заменяется значением по умолчанию.
func NewNotifier(gw NotificationGateway, settings SettingsProvider, logger Logger, fireDelay time.Duration) *Notifier {
	if fireDelay <= 0 {
		fireDelay = DefaultFireDelay
	}
	return &Notifier{
		gateway:   gw,
		settings:  settings,
		logger:    logger,
		fireDelay: fireDelay,
		now:       time.Now,
	}
}

// NotifyScanCompletion планирует сводку о завершённом сканировании.
// Валидация входа идёт первой, до проверок настроек и разрешения: она
// самая дешёвая. Тихие часы здесь жёсткая блокировка, а не перенос:
// отложенная сводка о только что завершённом действии теряет смысл.
func (n *Notifier) NotifyScanCompletion(ctx context.Context, itemCount int, totalSize int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if itemCount < 0 {
		return n.recordError(fmt.Errorf("%w: item count must be non-negative, got %d", ErrInvalidParameters, itemCount))
	}
	if totalSize < 0 {
		return n.recordError(fmt.Errorf("%w: total size must be non-negative, got %d", ErrInvalidParameters, totalSize))
	}

	settings := n.settings.Settings()
	if !settings.Enabled {
		return n.recordError(gateway.ErrNotificationsDisabled)
	}
	if !n.gateway.AuthorizationStatus().IsGranted() {
		return n.recordError(gateway.ErrPermissionDenied)
	}

	now := n.now()
	if quiethours.Contains(now, settings.QuietHoursEnabled, settings.QuietHoursStart, settings.QuietHoursEnd) {
		return n.recordError(quiethours.ErrQuietHoursActive)
	}

	// Осмысленна только одна pending-сводка: предыдущая снимается
	if err := n.gateway.Cancel(ctx, domain.IdentifierScanCompletion); err != nil {
		n.state.MarkFailed(err)
		return fmt.Errorf("NotifyScanCompletion - cancel previous: %w", err)
	}

	fireAt := now.Add(n.fireDelay)
	request := &domain.PendingRequest{
		Identifier: domain.IdentifierScanCompletion,
		Title:      "スキャンが完了しました",
		Body:       buildSummaryBody(itemCount, totalSize),
		Category:   domain.CategoryScanCompletion,
		FireAt:     fireAt,
		UserInfo: domain.UserInfo{
			"item_count": fmt.Sprintf("%d", itemCount),
			"total_size": fmt.Sprintf("%d", totalSize),
		},
	}

	if err := n.gateway.Schedule(ctx, request); err != nil {
		n.state.MarkFailed(err)
		return err
	}

	n.state.MarkScheduled(fireAt)
	n.lastItemCount = itemCount
	n.lastTotalSize = totalSize
	n.lastNotifiedAt = ptr.Ptr(now)
	n.wasNotificationSent = true

	n.logger.Info("Scan completion notification scheduled (items: %d, size: %d)", itemCount, totalSize)
	return nil
}

// NotifyNoItemsFound планирует сводку о сканировании без находок
func (n *Notifier) NotifyNoItemsFound(ctx context.Context) error {
	return n.NotifyScanCompletion(ctx, 0, 0)
}

// State возвращает копию текущего состояния
func (n *Notifier) State() domain.SchedulerState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// LastNotifiedItemCount возвращает число элементов последней сводки
func (n *Notifier) LastNotifiedItemCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastItemCount
}

// LastNotifiedTotalSize возвращает освобождаемый объём последней сводки
func (n *Notifier) LastNotifiedTotalSize() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastTotalSize
}

// LastNotificationDate возвращает момент последней успешной сводки
func (n *Notifier) LastNotificationDate() *time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastNotifiedAt
}

// WasNotificationSent сообщает, была ли успешно запланирована хотя бы
// одна сводка
func (n *Notifier) WasNotificationSent() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wasNotificationSent
}

func (n *Notifier) recordError(err error) error {
	n.state.LastError = err
	return err
}

// buildSummaryBody формирует текст сводки по числу находок
func buildSummaryBody(itemCount int, totalSize int64) string {
	if itemCount == 0 {
		return "不要な写真は見つかりませんでした"
	}
	return fmt.Sprintf("%d枚の不要な写真が見つかりました（%s の空き容量を確保できます）", itemCount, formatSize(totalSize))
}

// formatSize форматирует размер в человекочитаемый вид
func formatSize(size int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)

	switch {
	case size >= gb:
		return fmt.Sprintf("%.1fGB", float64(size)/float64(gb))
	case size >= mb:
		return fmt.Sprintf("%.1fMB", float64(size)/float64(mb))
	case size >= kb:
		return fmt.Sprintf("%.1fKB", float64(size)/float64(kb))
	default:
		return fmt.Sprintf("%dB", size)
	}
}
