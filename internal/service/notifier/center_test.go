package notifier

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/pkg/metrics"
)

// Коллекторы регистрируются в default registry, поэтому создаются один раз
var testMetrics = metrics.New("notifier-test")

type storeStub struct {
	mu       sync.Mutex
	requests map[string]*domain.PendingRequest
	saveErr  error
	listErr  error
}

func newStoreStub() *storeStub {
	return &storeStub{requests: make(map[string]*domain.PendingRequest)}
}

func (s *storeStub) Save(_ context.Context, request *domain.PendingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *request
	s.requests[request.Identifier] = &clone
	return nil
}

func (s *storeStub) List(_ context.Context) ([]*domain.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*domain.PendingRequest, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out, nil
}

func (s *storeStub) DeleteByIdentifiers(_ context.Context, identifiers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range identifiers {
		delete(s.requests, id)
	}
	return nil
}

func (s *storeStub) DeleteByPrefix(_ context.Context, prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id := range s.requests {
		if strings.HasPrefix(id, prefix) {
			delete(s.requests, id)
			removed++
		}
	}
	return removed, nil
}

func (s *storeStub) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = make(map[string]*domain.PendingRequest)
	return nil
}

type authStub struct {
	status  domain.AuthorizationStatus
	saveErr error
}

func (a *authStub) Authorization() domain.AuthorizationStatus { return a.status }

func (a *authStub) SetAuthorization(status domain.AuthorizationStatus) error {
	if a.saveErr != nil {
		return a.saveErr
	}
	a.status = status
	return nil
}

type verifierStub struct{ err error }

func (v *verifierStub) VerifyChat() error { return v.err }

type dispatcherStub struct {
	mu                 sync.Mutex
	registered         []string
	unregistered       []string
	prefixUnregistered []string
	clearedAll         bool
}

func (d *dispatcherStub) Register(request *domain.PendingRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registered = append(d.registered, request.Identifier)
}

func (d *dispatcherStub) Unregister(identifier string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unregistered = append(d.unregistered, identifier)
}

func (d *dispatcherStub) UnregisterByPrefix(prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prefixUnregistered = append(d.prefixUnregistered, prefix)
}

func (d *dispatcherStub) UnregisterAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearedAll = true
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestCenter() (*Center, *storeStub, *authStub, *verifierStub, *dispatcherStub) {
	store := newStoreStub()
	auth := &authStub{status: domain.AuthorizationNotDetermined}
	verifier := &verifierStub{}
	dispatcher := &dispatcherStub{}
	center := New(store, auth, verifier, dispatcher, testMetrics, nopLogger{})
	return center, store, auth, verifier, dispatcher
}

func TestAdd_SavesAndRegisters(t *testing.T) {
	center, store, _, _, dispatcher := newTestCenter()

	req := &domain.PendingRequest{
		Identifier: domain.IdentifierReminder,
		Title:      "title",
		Body:       "body",
		Category:   domain.CategoryReminder,
		FireAt:     time.Now().Add(time.Hour),
	}
	require.NoError(t, center.Add(context.Background(), req))

	assert.Contains(t, store.requests, domain.IdentifierReminder)
	assert.Equal(t, []string{domain.IdentifierReminder}, dispatcher.registered)
}

func TestAdd_StoreFailure(t *testing.T) {
	center, store, _, _, dispatcher := newTestCenter()
	store.saveErr = errors.New("disk full")

	err := center.Add(context.Background(), &domain.PendingRequest{Identifier: domain.IdentifierReminder})

	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.Empty(t, dispatcher.registered)
}

func TestRequestAuthorization_Granted(t *testing.T) {
	center, _, auth, _, _ := newTestCenter()

	granted, err := center.RequestAuthorization(context.Background())

	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, domain.AuthorizationAuthorized, auth.status)
}

func TestRequestAuthorization_Denied(t *testing.T) {
	center, _, auth, verifier, _ := newTestCenter()
	verifier.err = errors.New("chat not found")

	granted, err := center.RequestAuthorization(context.Background())

	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, domain.AuthorizationDenied, auth.status)

	// Повторный запрос после восстановления канала проходит
	verifier.err = nil
	granted, err = center.RequestAuthorization(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, domain.AuthorizationAuthorized, auth.status)
}

func TestRequestAuthorization_PersistFailure(t *testing.T) {
	center, _, auth, _, _ := newTestCenter()
	auth.saveErr = errors.New("read-only fs")

	_, err := center.RequestAuthorization(context.Background())

	assert.ErrorIs(t, err, ErrPersistAuthorization)
}

func TestRemoveByIdentifiers(t *testing.T) {
	center, store, _, _, dispatcher := newTestCenter()
	ctx := context.Background()

	require.NoError(t, center.Add(ctx, &domain.PendingRequest{Identifier: "a"}))
	require.NoError(t, center.Add(ctx, &domain.PendingRequest{Identifier: "b"}))

	require.NoError(t, center.RemoveByIdentifiers(ctx, []string{"a", "missing"}))

	assert.NotContains(t, store.requests, "a")
	assert.Contains(t, store.requests, "b")
	assert.Equal(t, []string{"a", "missing"}, dispatcher.unregistered)
}

func TestRemoveByIdentifiers_EmptyNoop(t *testing.T) {
	center, _, _, _, dispatcher := newTestCenter()

	require.NoError(t, center.RemoveByIdentifiers(context.Background(), nil))
	assert.Empty(t, dispatcher.unregistered)
}

func TestRemoveByPrefix(t *testing.T) {
	center, store, _, _, dispatcher := newTestCenter()
	ctx := context.Background()

	require.NoError(t, center.Add(ctx, &domain.PendingRequest{Identifier: domain.TrashWarningIdentifier("a")}))
	require.NoError(t, center.Add(ctx, &domain.PendingRequest{Identifier: domain.TrashWarningIdentifier("b")}))
	require.NoError(t, center.Add(ctx, &domain.PendingRequest{Identifier: domain.IdentifierReminder}))

	removed, err := center.RemoveByPrefix(ctx, domain.TrashWarningPrefix)

	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.NotContains(t, store.requests, domain.TrashWarningIdentifier("a"))
	assert.Contains(t, store.requests, domain.IdentifierReminder)
	assert.Equal(t, []string{domain.TrashWarningPrefix}, dispatcher.prefixUnregistered)
}

func TestAdd_IncrementsScheduledCounter(t *testing.T) {
	center, _, _, _, _ := newTestCenter()

	counter := testMetrics.NotificationsScheduled.WithLabelValues(string(domain.CategoryStorageAlert))
	before := testutil.ToFloat64(counter)

	require.NoError(t, center.Add(context.Background(), &domain.PendingRequest{
		Identifier: domain.IdentifierStorageAlert,
		Category:   domain.CategoryStorageAlert,
	}))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRemoveByIdentifiers_IncrementsCancelledCounter(t *testing.T) {
	center, _, _, _, _ := newTestCenter()
	ctx := context.Background()

	counter := testMetrics.NotificationsCancelled.WithLabelValues(string(domain.CategoryScanCompletion))
	before := testutil.ToFloat64(counter)

	require.NoError(t, center.Add(ctx, &domain.PendingRequest{
		Identifier: domain.IdentifierScanCompletion,
		Category:   domain.CategoryScanCompletion,
	}))
	require.NoError(t, center.RemoveByIdentifiers(ctx, []string{domain.IdentifierScanCompletion}))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRemoveAll(t *testing.T) {
	center, store, _, _, dispatcher := newTestCenter()
	ctx := context.Background()

	require.NoError(t, center.Add(ctx, &domain.PendingRequest{Identifier: "a"}))
	require.NoError(t, center.RemoveAll(ctx))

	assert.Empty(t, store.requests)
	assert.True(t, dispatcher.clearedAll)
}

func TestRestore_ReRegistersPending(t *testing.T) {
	center, store, _, _, dispatcher := newTestCenter()
	ctx := context.Background()

	store.requests["a"] = &domain.PendingRequest{Identifier: "a", FireAt: time.Now().Add(time.Hour)}
	store.requests["b"] = &domain.PendingRequest{Identifier: "b", FireAt: time.Now().Add(-time.Hour)}

	count, err := center.Restore(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.ElementsMatch(t, []string{"a", "b"}, dispatcher.registered)
}
