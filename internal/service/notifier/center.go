package notifier

import (
	"context"
	"fmt"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/pkg/metrics"
)

// Center центр уведомлений: персистентный реестр pending-запросов
// плюс регистрация отложенной доставки в диспетчере.
// Статус разрешения хранится вместе с настройками и меняется только
// через RequestAuthorization.
type Center struct {
	store      PendingStore
	auth       AuthorizationStore
	verifier   ChatVerifier
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	logger     Logger
}

// New создает центр уведомлений
func New(store PendingStore, auth AuthorizationStore, verifier ChatVerifier, dispatcher Dispatcher, m *metrics.Metrics, logger Logger) *Center {
	return &Center{
		store:      store,
		auth:       auth,
		verifier:   verifier,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
	}
}

// GetAuthorizationStatus возвращает сохранённый статус разрешения
func (c *Center) GetAuthorizationStatus(_ context.Context) (domain.AuthorizationStatus, error) {
	return c.auth.Authorization(), nil
}

// RequestAuthorization проверяет доступность канала доставки и сохраняет
// итоговый статус. Повторный вызов после отказа допустим.
func (c *Center) RequestAuthorization(_ context.Context) (bool, error) {
	if err := c.verifier.VerifyChat(); err != nil {
		c.logger.Warn("[Center] RequestAuthorization - chat verification failed: %v", err)
		if persistErr := c.auth.SetAuthorization(domain.AuthorizationDenied); persistErr != nil {
			return false, fmt.Errorf("%w: %v", ErrPersistAuthorization, persistErr)
		}
		return false, nil
	}

	if err := c.auth.SetAuthorization(domain.AuthorizationAuthorized); err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistAuthorization, err)
	}

	c.logger.Info("[Center] RequestAuthorization - delivery channel verified, authorization granted")
	return true, nil
}

// Add сохраняет pending-запрос и регистрирует его доставку в диспетчере.
// Повторный Add с тем же идентификатором замещает прежний запрос.
func (c *Center) Add(ctx context.Context, request *domain.PendingRequest) error {
	if err := c.store.Save(ctx, request); err != nil {
		return fmt.Errorf("%w: Add - failed to save request %s: %v", ErrStoreFailure, request.Identifier, err)
	}

	c.dispatcher.Register(request)
	c.metrics.NotificationsScheduled.WithLabelValues(string(request.Category)).Inc()
	c.logger.Info("[Center] Add - request %s registered, fire_at=%s", request.Identifier, request.FireAt.Format("2006-01-02 15:04:05"))
	return nil
}

// GetPendingRequests возвращает все ещё не доставленные запросы
func (c *Center) GetPendingRequests(ctx context.Context) ([]*domain.PendingRequest, error) {
	requests, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingRequests - %v", ErrStoreFailure, err)
	}
	return requests, nil
}

// RemoveByIdentifiers снимает запросы по идентификаторам; отсутствующие игнорируются
func (c *Center) RemoveByIdentifiers(ctx context.Context, identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}

	for _, id := range identifiers {
		c.dispatcher.Unregister(id)
	}

	if err := c.store.DeleteByIdentifiers(ctx, identifiers); err != nil {
		return fmt.Errorf("%w: RemoveByIdentifiers - %v", ErrStoreFailure, err)
	}

	for _, id := range identifiers {
		if category := domain.CategoryForIdentifier(id); category != "" {
			c.metrics.NotificationsCancelled.WithLabelValues(string(category)).Inc()
		}
	}

	c.logger.Info("[Center] RemoveByIdentifiers - removed %d request(s)", len(identifiers))
	return nil
}

// RemoveByPrefix снимает запросы с идентификаторами, начинающимися с
// префикса, одним обращением к хранилищу. Возвращает число снятых запросов.
func (c *Center) RemoveByPrefix(ctx context.Context, prefix string) (int, error) {
	c.dispatcher.UnregisterByPrefix(prefix)

	removed, err := c.store.DeleteByPrefix(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("%w: RemoveByPrefix - %v", ErrStoreFailure, err)
	}

	if removed > 0 {
		if category := domain.CategoryForIdentifier(prefix); category != "" {
			c.metrics.NotificationsCancelled.WithLabelValues(string(category)).Add(float64(removed))
		}
		c.logger.Info("[Center] RemoveByPrefix - removed %d request(s) with prefix %q", removed, prefix)
	}
	return int(removed), nil
}

// RemoveAll снимает все pending-запросы
func (c *Center) RemoveAll(ctx context.Context) error {
	c.dispatcher.UnregisterAll()

	if err := c.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: RemoveAll - %v", ErrStoreFailure, err)
	}

	c.logger.Info("[Center] RemoveAll - all pending requests removed")
	return nil
}

// Restore регистрирует в диспетчере запросы, пережившие перезапуск.
// Просроченные запросы диспетчер доставит при ближайшем запуске.
func (c *Center) Restore(ctx context.Context) (int, error) {
	requests, err := c.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: Restore - %v", ErrStoreFailure, err)
	}

	for _, request := range requests {
		c.dispatcher.Register(request)
	}

	if len(requests) > 0 {
		c.logger.Info("[Center] Restore - re-registered %d pending request(s)", len(requests))
	}
	return len(requests), nil
}
