package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/infra/storage/pending"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/pkg/metrics"
)

// Коллекторы регистрируются в default registry, поэтому создаются один раз
var testMetrics = metrics.New("worker-test")

type repoStub struct {
	mu       sync.Mutex
	requests map[string]*domain.PendingRequest
	deleted  []string
}

func newRepoStub() *repoStub {
	return &repoStub{requests: make(map[string]*domain.PendingRequest)}
}

func (r *repoStub) GetByIdentifier(_ context.Context, identifier string) (*domain.PendingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[identifier]
	if !ok {
		return nil, pending.ErrRequestNotFound
	}
	clone := *request
	return &clone, nil
}

func (r *repoStub) ListDue(_ context.Context, now time.Time) ([]*domain.PendingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	due := make([]*domain.PendingRequest, 0)
	for _, request := range r.requests {
		if request.IsDue(now) {
			clone := *request
			due = append(due, &clone)
		}
	}
	return due, nil
}

func (r *repoStub) DeleteByIdentifiers(_ context.Context, identifiers []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range identifiers {
		delete(r.requests, id)
		r.deleted = append(r.deleted, id)
	}
	return nil
}

type deliveryStub struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (d *deliveryStub) SendNotification(request *domain.PendingRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, request.Identifier)
	return nil
}

type testLogger struct{}

func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}

func newTestDispatcher() (*Dispatcher, *repoStub, *deliveryStub) {
	repo := newRepoStub()
	delivery := &deliveryStub{}
	d := NewDispatcher(repo, delivery, testMetrics, testLogger{})
	return d, repo, delivery
}

func TestRegister_ReplacesExistingJob(t *testing.T) {
	d, _, _ := newTestDispatcher()
	defer d.Stop()

	fireAt := time.Now().Add(time.Hour)
	d.Register(&domain.PendingRequest{Identifier: domain.IdentifierReminder, FireAt: fireAt})
	d.Register(&domain.PendingRequest{Identifier: domain.IdentifierReminder, FireAt: fireAt.Add(time.Hour)})

	assert.Equal(t, 1, d.JobCount())
}

func TestUnregister(t *testing.T) {
	d, _, _ := newTestDispatcher()
	defer d.Stop()

	d.Register(&domain.PendingRequest{Identifier: "a", FireAt: time.Now().Add(time.Hour)})
	d.Register(&domain.PendingRequest{Identifier: "b", FireAt: time.Now().Add(time.Hour)})

	d.Unregister("a")
	assert.Equal(t, 1, d.JobCount())

	// Отмена незарегистрированного идентификатора не паникует
	d.Unregister("missing")

	d.UnregisterAll()
	assert.Equal(t, 0, d.JobCount())
}

func TestDeliver_Success(t *testing.T) {
	d, repo, delivery := newTestDispatcher()
	defer d.Stop()

	fireAt := time.Now().Add(-time.Second)
	repo.requests["a"] = &domain.PendingRequest{
		Identifier: "a",
		Category:   domain.CategoryReminder,
		FireAt:     fireAt,
	}

	d.deliver("a", fireAt)

	assert.Equal(t, []string{"a"}, delivery.sent)
	assert.Equal(t, []string{"a"}, repo.deleted)
}

func TestDeliver_CancelledRequestSkipped(t *testing.T) {
	d, repo, delivery := newTestDispatcher()
	defer d.Stop()

	d.deliver("gone", time.Now())

	assert.Empty(t, delivery.sent)
	assert.Empty(t, repo.deleted)
}

func TestDeliver_RescheduledRequestSkipped(t *testing.T) {
	d, repo, delivery := newTestDispatcher()
	defer d.Stop()

	oldFireAt := time.Now().Add(-time.Second)
	repo.requests["a"] = &domain.PendingRequest{
		Identifier: "a",
		Category:   domain.CategoryReminder,
		FireAt:     oldFireAt.Add(time.Hour),
	}

	d.deliver("a", oldFireAt)

	assert.Empty(t, delivery.sent)
	assert.Empty(t, repo.deleted)
}

func TestDeliver_DatabaseMicrosecondPrecision(t *testing.T) {
	d, repo, delivery := newTestDispatcher()
	defer d.Stop()

	// TIMESTAMPTZ хранит микросекунды: перечитанное из БД время теряет
	// наносекунды момента регистрации, доставка не должна считать это
	// замещением
	stored := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	registeredAt := stored.Add(437 * time.Nanosecond)
	repo.requests["a"] = &domain.PendingRequest{
		Identifier: "a",
		Category:   domain.CategoryReminder,
		FireAt:     stored,
	}

	d.deliver("a", registeredAt)

	assert.Equal(t, []string{"a"}, delivery.sent)
	assert.Equal(t, []string{"a"}, repo.deleted)
}

func TestUnregisterByPrefix(t *testing.T) {
	d, _, _ := newTestDispatcher()
	defer d.Stop()

	fireAt := time.Now().Add(time.Hour)
	d.Register(&domain.PendingRequest{Identifier: domain.TrashWarningIdentifier("a"), FireAt: fireAt})
	d.Register(&domain.PendingRequest{Identifier: domain.TrashWarningIdentifier("b"), FireAt: fireAt})
	d.Register(&domain.PendingRequest{Identifier: domain.IdentifierReminder, FireAt: fireAt})

	d.UnregisterByPrefix(domain.TrashWarningPrefix)

	assert.Equal(t, 1, d.JobCount())
	assert.True(t, d.hasJob(domain.IdentifierReminder))
}

func TestSweepOverdue_DeliversJoblessRequests(t *testing.T) {
	d, repo, delivery := newTestDispatcher()
	defer d.Stop()

	// Просроченный запрос без задачи: например, после перезапуска его
	// задача ещё не восстановлена или израсходована неудачной доставкой
	repo.requests["a"] = &domain.PendingRequest{
		Identifier: "a",
		Category:   domain.CategoryStorageAlert,
		FireAt:     time.Now().Add(-time.Minute),
	}
	// Будущий запрос в добор не попадает
	repo.requests["b"] = &domain.PendingRequest{
		Identifier: "b",
		Category:   domain.CategoryReminder,
		FireAt:     time.Now().Add(time.Hour),
	}

	delivered, err := d.SweepOverdue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	assert.Equal(t, []string{"a"}, delivery.sent)
	assert.Equal(t, []string{"a"}, repo.deleted)
}

func TestSweepOverdue_SkipsRequestsWithLiveJob(t *testing.T) {
	d, repo, delivery := newTestDispatcher()
	defer d.Stop()

	request := &domain.PendingRequest{
		Identifier: "a",
		Category:   domain.CategoryReminder,
		FireAt:     time.Now().Add(-time.Second),
	}
	repo.requests["a"] = request
	d.Register(request)

	delivered, err := d.SweepOverdue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, delivered)
	assert.Empty(t, delivery.sent)
}

func TestSweepOverdue_FailureKeepsRequest(t *testing.T) {
	d, repo, delivery := newTestDispatcher()
	defer d.Stop()

	repo.requests["a"] = &domain.PendingRequest{
		Identifier: "a",
		Category:   domain.CategoryReminder,
		FireAt:     time.Now().Add(-time.Minute),
	}
	delivery.err = errors.New("telegram down")

	delivered, err := d.SweepOverdue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, delivered)
	require.Contains(t, repo.requests, "a")
}

func TestDeliver_FailureKeepsRequest(t *testing.T) {
	d, repo, delivery := newTestDispatcher()
	defer d.Stop()

	fireAt := time.Now()
	repo.requests["a"] = &domain.PendingRequest{
		Identifier: "a",
		Category:   domain.CategoryReminder,
		FireAt:     fireAt,
	}
	delivery.err = errors.New("telegram down")

	d.deliver("a", fireAt)

	// Запрос остаётся в БД и будет восстановлен при перезапуске
	require.Contains(t, repo.requests, "a")
	assert.Empty(t, repo.deleted)
}
