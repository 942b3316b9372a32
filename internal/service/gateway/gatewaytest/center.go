// Package gatewaytest содержит in-memory реализацию сервиса доставки
// для тестов планировщиков.
package gatewaytest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// Center in-memory сервис доставки уведомлений.
// Потокобезопасен; ошибки инжектируются через поля.
type Center struct {
	mu             sync.Mutex
	pending        map[string]*domain.PendingRequest
	status         domain.AuthorizationStatus
	grantOnRequest bool

	// AddErr инжектирует ошибку в Add
	AddErr error
	// ListErr инжектирует ошибку в GetPendingRequests
	ListErr error
	// RemoveErr инжектирует ошибку в RemoveByIdentifiers/RemoveAll
	RemoveErr error

	// Счётчики обращений для проверки dedup-политик
	AddCalls    int
	RemoveCalls int
}

// NewCenter создает пустой центр с выданным разрешением
func NewCenter() *Center {
	return &Center{
		pending:        make(map[string]*domain.PendingRequest),
		status:         domain.AuthorizationAuthorized,
		grantOnRequest: true,
	}
}

// SetAuthorizationStatus выставляет статус разрешения
func (c *Center) SetAuthorizationStatus(status domain.AuthorizationStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

// GetAuthorizationStatus возвращает текущий статус разрешения
func (c *Center) GetAuthorizationStatus(ctx context.Context) (domain.AuthorizationStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, nil
}

// RequestAuthorization выдаёт или отклоняет разрешение согласно grantOnRequest
func (c *Center) RequestAuthorization(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.grantOnRequest {
		c.status = domain.AuthorizationAuthorized
	} else {
		c.status = domain.AuthorizationDenied
	}
	return c.grantOnRequest, nil
}

// Add регистрирует pending-запрос, заменяя запись с тем же идентификатором
func (c *Center) Add(ctx context.Context, request *domain.PendingRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.AddCalls++
	if c.AddErr != nil {
		return c.AddErr
	}

	clone := *request
	c.pending[request.Identifier] = &clone
	return nil
}

// GetPendingRequests возвращает все pending-запросы в стабильном порядке
func (c *Center) GetPendingRequests(ctx context.Context) ([]*domain.PendingRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ListErr != nil {
		return nil, c.ListErr
	}

	result := make([]*domain.PendingRequest, 0, len(c.pending))
	for _, request := range c.pending {
		result = append(result, request)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Identifier < result[j].Identifier
	})
	return result, nil
}

// RemoveByIdentifiers снимает запросы по идентификаторам
func (c *Center) RemoveByIdentifiers(ctx context.Context, identifiers []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.RemoveCalls++
	if c.RemoveErr != nil {
		return c.RemoveErr
	}

	for _, identifier := range identifiers {
		delete(c.pending, identifier)
	}
	return nil
}

// RemoveByPrefix снимает запросы с идентификаторами, начинающимися с префикса
func (c *Center) RemoveByPrefix(ctx context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.RemoveCalls++
	if c.RemoveErr != nil {
		return 0, c.RemoveErr
	}

	removed := 0
	for identifier := range c.pending {
		if strings.HasPrefix(identifier, prefix) {
			delete(c.pending, identifier)
			removed++
		}
	}
	return removed, nil
}

// RemoveAll снимает все pending-запросы
func (c *Center) RemoveAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.RemoveCalls++
	if c.RemoveErr != nil {
		return c.RemoveErr
	}

	c.pending = make(map[string]*domain.PendingRequest)
	return nil
}

// Pending возвращает текущий pending-запрос по идентификатору (nil, если нет)
func (c *Center) Pending(identifier string) *domain.PendingRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[identifier]
}

// PendingCount возвращает число pending-запросов
func (c *Center) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
