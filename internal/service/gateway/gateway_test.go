package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway/gatewaytest"
)

func newTestGateway(t *testing.T, settings domain.Settings) (*Gateway, *gatewaytest.Center) {
	t.Helper()

	center := gatewaytest.NewCenter()
	gw := New(center, gatewaytest.NewSettingsStub(settings), gatewaytest.NopLogger{})

	_, err := gw.RefreshAuthorization(context.Background())
	require.NoError(t, err)

	return gw, center
}

func testRequest(identifier string) *domain.PendingRequest {
	return &domain.PendingRequest{
		Identifier: identifier,
		Title:      "title",
		Body:       "body",
		Category:   domain.CategoryReminder,
		FireAt:     time.Now().Add(time.Hour),
	}
}

func TestSchedule_Success(t *testing.T) {
	gw, center := newTestGateway(t, domain.DefaultSettings())

	err := gw.Schedule(context.Background(), testRequest(domain.IdentifierReminder))

	require.NoError(t, err)
	assert.NotNil(t, center.Pending(domain.IdentifierReminder))
}

func TestSchedule_DisabledCheckedBeforePermission(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Enabled = false

	gw, center := newTestGateway(t, settings)
	center.SetAuthorizationStatus(domain.AuthorizationDenied)

	err := gw.Schedule(context.Background(), testRequest(domain.IdentifierReminder))

	assert.ErrorIs(t, err, ErrNotificationsDisabled)
	assert.Equal(t, 0, center.AddCalls)
}

func TestSchedule_PermissionDenied(t *testing.T) {
	center := gatewaytest.NewCenter()
	center.SetAuthorizationStatus(domain.AuthorizationDenied)

	gw := New(center, gatewaytest.NewSettingsStub(domain.DefaultSettings()), gatewaytest.NopLogger{})
	_, err := gw.RefreshAuthorization(context.Background())
	require.NoError(t, err)

	err = gw.Schedule(context.Background(), testRequest(domain.IdentifierReminder))

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 0, center.AddCalls)
}

func TestSchedule_CenterFailureWrappedAndNoStaleEntry(t *testing.T) {
	gw, center := newTestGateway(t, domain.DefaultSettings())
	center.AddErr = errors.New("delivery service rejected request")

	err := gw.Schedule(context.Background(), testRequest(domain.IdentifierStorageAlert))

	assert.ErrorIs(t, err, ErrSchedulingFailed)
	assert.Contains(t, err.Error(), "delivery service rejected request")
	assert.Equal(t, 0, center.PendingCount())
}

func TestSchedule_AuthorizationCacheNotRefreshedImplicitly(t *testing.T) {
	gw, center := newTestGateway(t, domain.DefaultSettings())

	// Отзыв разрешения виден только после явного RefreshAuthorization
	center.SetAuthorizationStatus(domain.AuthorizationDenied)
	require.NoError(t, gw.Schedule(context.Background(), testRequest(domain.IdentifierReminder)))

	_, err := gw.RefreshAuthorization(context.Background())
	require.NoError(t, err)

	err = gw.Schedule(context.Background(), testRequest(domain.IdentifierReminder))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCancel_NoopWhenNothingPending(t *testing.T) {
	gw, _ := newTestGateway(t, domain.DefaultSettings())

	assert.NoError(t, gw.Cancel(context.Background(), domain.IdentifierReminder))
}

func TestCancelByPrefix(t *testing.T) {
	gw, center := newTestGateway(t, domain.DefaultSettings())
	ctx := context.Background()

	require.NoError(t, gw.Schedule(ctx, testRequest(domain.TrashWarningIdentifier("a"))))
	require.NoError(t, gw.Schedule(ctx, testRequest(domain.TrashWarningIdentifier("b"))))
	require.NoError(t, gw.Schedule(ctx, testRequest(domain.IdentifierReminder)))

	count, err := gw.CancelByPrefix(ctx, domain.TrashWarningPrefix)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, center.PendingCount())
	assert.NotNil(t, center.Pending(domain.IdentifierReminder))
}

func TestCancelByPrefix_NoMatches(t *testing.T) {
	gw, center := newTestGateway(t, domain.DefaultSettings())

	count, err := gw.CancelByPrefix(context.Background(), domain.TrashWarningPrefix)

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, center.PendingCount())
}

func TestHasPending(t *testing.T) {
	gw, _ := newTestGateway(t, domain.DefaultSettings())
	ctx := context.Background()

	has, err := gw.HasPending(ctx, domain.IdentifierStorageAlert)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, gw.Schedule(ctx, testRequest(domain.IdentifierStorageAlert)))

	has, err = gw.HasPending(ctx, domain.IdentifierStorageAlert)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRequestAuthorization_UpdatesCache(t *testing.T) {
	center := gatewaytest.NewCenter()
	center.SetAuthorizationStatus(domain.AuthorizationNotDetermined)

	gw := New(center, gatewaytest.NewSettingsStub(domain.DefaultSettings()), gatewaytest.NopLogger{})
	assert.Equal(t, domain.AuthorizationNotDetermined, gw.AuthorizationStatus())

	granted, err := gw.RequestAuthorization(context.Background())

	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, domain.AuthorizationAuthorized, gw.AuthorizationStatus())
}

func TestConcurrentScheduleAndCancel(t *testing.T) {
	gw, center := newTestGateway(t, domain.DefaultSettings())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = gw.Schedule(ctx, testRequest(domain.IdentifierStorageAlert))
		}()
		go func() {
			defer wg.Done()
			_ = gw.Cancel(ctx, domain.IdentifierReminder)
		}()
	}
	wg.Wait()

	// Инвариант: не более одной записи на идентификатор
	assert.LessOrEqual(t, center.PendingCount(), 1)
}
