package trashwarn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/quiethours"
)

const (
	// DefaultWarningDays за сколько дней до истечения предупреждать
	DefaultWarningDays = 3

	// DefaultImmediateDelay задержка для уже просроченного предупреждения
	DefaultImmediateDelay = 5 * time.Second
)

// Notifier планировщик предупреждений об истечении срока корзины.
// Единовременно активно ровно одно предупреждение на всю корзину:
// перед планированием снимаются все идентификаторы с общим префиксом.
// Пересчёт запускают и HTTP-обработчики, и фоновый poller, поэтому
// методы сериализуются мьютексом.
type Notifier struct {
	gateway        NotificationGateway
	trash          TrashItemProvider
	settings       SettingsProvider
	logger         Logger
	warningDays    int
	immediateDelay time.Duration
	now            func() time.Time

	mu               sync.Mutex
	state            domain.SchedulerState
	lastWarnedItemID string
}

// NewNotifier создает планировщик предупреждений корзины.
// Неположительные параметры заменяются значениями по умолчанию.
func NewNotifier(gw NotificationGateway, trash TrashItemProvider, settings SettingsProvider, logger Logger, warningDays int, immediateDelay time.Duration) *Notifier {
	if warningDays <= 0 {
		warningDays = DefaultWarningDays
	}
	if immediateDelay <= 0 {
		immediateDelay = DefaultImmediateDelay
	}
	return &Notifier{
		gateway:        gw,
		trash:          trash,
		settings:       settings,
		logger:         logger,
		warningDays:    warningDays,
		immediateDelay: immediateDelay,
		now:            time.Now,
	}
}

// ScheduleExpirationWarning выбирает ближайший к истечению элемент корзины
// и планирует одно предупреждение за warningDays дней до его истечения.
// Просроченное предупреждение не пропускается, а уходит почти немедленно.
func (n *Notifier) ScheduleExpirationWarning(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	settings := n.settings.Settings()

	if !settings.Enabled {
		return n.recordError(gateway.ErrNotificationsDisabled)
	}
	if !n.gateway.AuthorizationStatus().IsGranted() {
		return n.recordError(gateway.ErrPermissionDenied)
	}

	items, err := n.trash.FetchAllTrashItems(ctx)
	if err != nil {
		return n.recordError(fmt.Errorf("%w: %v", ErrFetchItems, err))
	}
	if len(items) == 0 {
		n.dropStaleWarning(ctx)
		return n.recordError(ErrTrashEmpty)
	}

	now := n.now()
	selected, found := n.selectNearest(items, now)
	if !found {
		n.dropStaleWarning(ctx)
		return n.recordError(ErrNoExpiringItems)
	}

	warningDate := selected.ExpiresAt.Add(-time.Duration(n.warningDays) * 24 * time.Hour)

	var fireAt time.Time
	if !warningDate.After(now) {
		// Предупреждение уже просрочено: отправляем почти сразу,
		// без переноса тихими часами
		fireAt = now.Add(n.immediateDelay)
	} else {
		fireAt = quiethours.Adjust(warningDate, settings.QuietHoursEnabled, settings.QuietHoursStart, settings.QuietHoursEnd)
	}

	// Снимаем все предыдущие предупреждения: активно ровно одно
	if _, err := n.gateway.CancelByPrefix(ctx, domain.TrashWarningPrefix); err != nil {
		n.state.MarkFailed(err)
		return fmt.Errorf("ScheduleExpirationWarning - cancel previous warnings: %w", err)
	}

	request := &domain.PendingRequest{
		Identifier: domain.TrashWarningIdentifier(selected.ID),
		Title:      "ゴミ箱の写真がまもなく削除されます",
		Body:       fmt.Sprintf("「%s」が%sに完全に削除されます", selected.Name, selected.ExpiresAt.Format("1月2日 15:04")),
		Category:   domain.CategoryTrashExpiration,
		FireAt:     fireAt,
		UserInfo: domain.UserInfo{
			"item_id":    selected.ID,
			"expires_at": selected.ExpiresAt.Format(time.RFC3339),
		},
	}

	if err := n.gateway.Schedule(ctx, request); err != nil {
		n.state.MarkFailed(err)
		return err
	}

	n.state.MarkScheduled(fireAt)
	n.lastWarnedItemID = selected.ID

	n.logger.Info("Trash expiration warning scheduled for item %s (expires: %s, fire_at: %s)",
		selected.ID, selected.ExpiresAt.Format(time.RFC3339), fireAt.Format(time.RFC3339))
	return nil
}

// CancelAllExpirationWarnings снимает все предупреждения по префиксу
// и сбрасывает состояние. Возвращает число снятых предупреждений.
func (n *Notifier) CancelAllExpirationWarnings(ctx context.Context) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	count, err := n.gateway.CancelByPrefix(ctx, domain.TrashWarningPrefix)

	n.state.Reset()
	n.lastWarnedItemID = ""

	if err != nil {
		return 0, fmt.Errorf("CancelAllExpirationWarnings - gateway error: %w", err)
	}
	return count, nil
}

// GetExpiringItemCount возвращает число элементов в окне предупреждения.
// Чистый запрос без побочных эффектов планирования.
func (n *Notifier) GetExpiringItemCount(ctx context.Context) (int, error) {
	items, err := n.trash.FetchAllTrashItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFetchItems, err)
	}

	now := n.now()
	window := n.warningWindow()

	count := 0
	for i := range items {
		if items[i].ExpiresWithin(now, window) {
			count++
		}
	}
	return count, nil
}

// State возвращает копию текущего состояния
func (n *Notifier) State() domain.SchedulerState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// LastWarnedItemID возвращает id элемента последнего предупреждения
func (n *Notifier) LastWarnedItemID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastWarnedItemID
}

// selectNearest выбирает элемент с минимальным expiresAt среди попадающих
// в окно предупреждения; при равенстве побеждает первый встреченный
func (n *Notifier) selectNearest(items []domain.TrashItem, now time.Time) (domain.TrashItem, bool) {
	window := n.warningWindow()

	var selected domain.TrashItem
	found := false
	for i := range items {
		if !items[i].ExpiresWithin(now, window) {
			continue
		}
		if !found || items[i].ExpiresAt.Before(selected.ExpiresAt) {
			selected = items[i]
			found = true
		}
	}
	return selected, found
}

// warningWindow возвращает окно отбора кандидатов.
// Элемент попадает в окно, когда его предупреждение (за warningDays до
// истечения) наступает в ближайшие сутки.
func (n *Notifier) warningWindow() time.Duration {
	return time.Duration(n.warningDays+1) * 24 * time.Hour
}

// dropStaleWarning снимает предупреждение, оставшееся от элемента,
// которого больше нет в корзине или в окне: иначе оно сработает по уже
// удалённому элементу. Вызывается под мьютексом.
func (n *Notifier) dropStaleWarning(ctx context.Context) {
	count, err := n.gateway.CancelByPrefix(ctx, domain.TrashWarningPrefix)
	if err != nil {
		n.logger.Warn("Failed to cancel stale expiration warning: %v", err)
		return
	}

	if count > 0 {
		n.state.Reset()
		n.lastWarnedItemID = ""
		n.logger.Info("Cancelled %d stale expiration warning(s)", count)
	}
}

func (n *Notifier) recordError(err error) error {
	n.state.LastError = err
	return err
}
