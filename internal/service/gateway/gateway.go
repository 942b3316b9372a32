package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// Gateway фасад над внешним сервисом доставки уведомлений.
// Единственный владелец инварианта "не более одного pending-запроса на
// идентификатор": все четыре планировщика ходят через один экземпляр,
// операции сериализованы мьютексом.
type Gateway struct {
	center   NotificationCenter
	settings SettingsProvider
	logger   Logger

	mu         sync.Mutex
	authStatus domain.AuthorizationStatus
}

// New создает новый экземпляр гейтвея.
// Статус разрешения считается неопределённым до первого RefreshAuthorization.
func New(center NotificationCenter, settings SettingsProvider, logger Logger) *Gateway {
	return &Gateway{
		center:     center,
		settings:   settings,
		logger:     logger,
		authStatus: domain.AuthorizationNotDetermined,
	}
}

// AuthorizationStatus возвращает закешированный статус разрешения
func (g *Gateway) AuthorizationStatus() domain.AuthorizationStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authStatus
}

// RefreshAuthorization перечитывает статус разрешения из сервиса доставки
// и обновляет кеш
func (g *Gateway) RefreshAuthorization(ctx context.Context) (domain.AuthorizationStatus, error) {
	status, err := g.center.GetAuthorizationStatus(ctx)
	if err != nil {
		return domain.AuthorizationNotDetermined, fmt.Errorf("RefreshAuthorization - notification center error: %w", err)
	}

	g.mu.Lock()
	g.authStatus = status
	g.mu.Unlock()

	return status, nil
}

// RequestAuthorization запрашивает разрешение у сервиса доставки и
// обновляет кеш по результату
func (g *Gateway) RequestAuthorization(ctx context.Context) (bool, error) {
	granted, err := g.center.RequestAuthorization(ctx)
	if err != nil {
		return false, fmt.Errorf("RequestAuthorization - notification center error: %w", err)
	}

	g.mu.Lock()
	if granted {
		g.authStatus = domain.AuthorizationAuthorized
	} else {
		g.authStatus = domain.AuthorizationDenied
	}
	g.mu.Unlock()

	return granted, nil
}

// Validate проверяет предусловия планирования: сначала глобальный флаг,
// затем разрешение. Порядок является контрактом для вызывающих.
func (g *Gateway) Validate() error {
	if !g.settings.Settings().Enabled {
		return ErrNotificationsDisabled
	}
	if !g.AuthorizationStatus().IsGranted() {
		return ErrPermissionDenied
	}
	return nil
}

// Schedule регистрирует pending-запрос в сервисе доставки.
// Предусловия проверяются до обращения к сервису; при ошибке регистрации
// запись снимается, чтобы не оставить осиротевший запрос.
func (g *Gateway) Schedule(ctx context.Context, request *domain.PendingRequest) error {
	if err := g.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.center.Add(ctx, request); err != nil {
		// Снимаем возможную частичную запись, ошибку снятия только логируем
		if rmErr := g.center.RemoveByIdentifiers(ctx, []string{request.Identifier}); rmErr != nil {
			g.logger.Warn("Schedule: cleanup after failed add for %q: %v", request.Identifier, rmErr)
		}
		return fmt.Errorf("%w: %v", ErrSchedulingFailed, err)
	}

	g.logger.Info("Scheduled notification %q (category: %s, fire_at: %s)",
		request.Identifier, request.Category, request.FireAt)
	return nil
}

// Cancel снимает pending-запрос по идентификатору.
// Безопасен, если запроса нет: это не ошибка.
func (g *Gateway) Cancel(ctx context.Context, identifier string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.center.RemoveByIdentifiers(ctx, []string{identifier}); err != nil {
		return fmt.Errorf("Cancel - notification center error: %w", err)
	}
	return nil
}

// CancelByPrefix снимает все pending-запросы, идентификаторы которых
// начинаются с указанного префикса. Возвращает число снятых запросов.
func (g *Gateway) CancelByPrefix(ctx context.Context, prefix string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	count, err := g.center.RemoveByPrefix(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("CancelByPrefix - notification center error: %w", err)
	}

	if count > 0 {
		g.logger.Info("Cancelled %d pending notifications with prefix %q", count, prefix)
	}
	return count, nil
}

// CancelAll снимает все pending-запросы
func (g *Gateway) CancelAll(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.center.RemoveAll(ctx); err != nil {
		return fmt.Errorf("CancelAll - notification center error: %w", err)
	}
	return nil
}

// HasPending проверяет наличие pending-запроса с указанным идентификатором
func (g *Gateway) HasPending(ctx context.Context, identifier string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pending, err := g.center.GetPendingRequests(ctx)
	if err != nil {
		return false, fmt.Errorf("HasPending - notification center error: %w", err)
	}

	for _, request := range pending {
		if request.Identifier == identifier {
			return true, nil
		}
	}
	return false, nil
}

// ListPending возвращает все pending-запросы сервиса доставки
func (g *Gateway) ListPending(ctx context.Context) ([]*domain.PendingRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pending, err := g.center.GetPendingRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListPending - notification center error: %w", err)
	}
	return pending, nil
}
