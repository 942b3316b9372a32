package scancomplete

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway/gatewaytest"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/quiethours"
)

func newTestNotifier(t *testing.T, settings domain.Settings, now time.Time) (*Notifier, *gatewaytest.Center) {
	t.Helper()

	center := gatewaytest.NewCenter()
	settingsStub := gatewaytest.NewSettingsStub(settings)
	gw := gateway.New(center, settingsStub, gatewaytest.NopLogger{})

	_, err := gw.RefreshAuthorization(context.Background())
	require.NoError(t, err)

	n := NewNotifier(gw, settingsStub, gatewaytest.NopLogger{}, DefaultFireDelay)
	n.now = func() time.Time { return now }

	return n, center
}

func noQuietHours() domain.Settings {
	settings := domain.DefaultSettings()
	settings.QuietHoursEnabled = false
	return settings
}

func daytime() time.Time {
	return time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
}

func TestNotify_Success(t *testing.T) {
	n, center := newTestNotifier(t, noQuietHours(), daytime())

	require.NoError(t, n.NotifyScanCompletion(context.Background(), 12, 512<<20))

	request := center.Pending(domain.IdentifierScanCompletion)
	require.NotNil(t, request)
	assert.Equal(t, daytime().Add(DefaultFireDelay), request.FireAt)
	assert.Equal(t, "12", request.UserInfo["item_count"])

	assert.True(t, n.WasNotificationSent())
	assert.Equal(t, 12, n.LastNotifiedItemCount())
	assert.Equal(t, int64(512<<20), n.LastNotifiedTotalSize())
	require.NotNil(t, n.LastNotificationDate())
	assert.Equal(t, daytime(), *n.LastNotificationDate())
}

func TestNotify_InvalidParametersCheckedFirst(t *testing.T) {
	// Валидация входа срабатывает даже при глобально выключенных уведомлениях
	settings := noQuietHours()
	settings.Enabled = false

	n, center := newTestNotifier(t, settings, daytime())

	err := n.NotifyScanCompletion(context.Background(), -1, 100)
	assert.ErrorIs(t, err, ErrInvalidParameters)

	err = n.NotifyScanCompletion(context.Background(), 1, -100)
	assert.ErrorIs(t, err, ErrInvalidParameters)

	assert.Equal(t, 0, center.AddCalls)
}

func TestNotify_DisabledAndPermission(t *testing.T) {
	settings := noQuietHours()
	settings.Enabled = false

	n, _ := newTestNotifier(t, settings, daytime())
	assert.ErrorIs(t, n.NotifyScanCompletion(context.Background(), 1, 1), gateway.ErrNotificationsDisabled)

	center := gatewaytest.NewCenter()
	center.SetAuthorizationStatus(domain.AuthorizationDenied)
	settingsStub := gatewaytest.NewSettingsStub(noQuietHours())
	gw := gateway.New(center, settingsStub, gatewaytest.NopLogger{})
	_, err := gw.RefreshAuthorization(context.Background())
	require.NoError(t, err)

	denied := NewNotifier(gw, settingsStub, gatewaytest.NopLogger{}, DefaultFireDelay)
	assert.ErrorIs(t, denied.NotifyScanCompletion(context.Background(), 1, 1), gateway.ErrPermissionDenied)
}

func TestNotify_QuietHoursHardBlock(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.QuietHoursStart = 13
	settings.QuietHoursEnd = 15

	n, center := newTestNotifier(t, settings, daytime())

	err := n.NotifyScanCompletion(context.Background(), 3, 100)

	assert.ErrorIs(t, err, quiethours.ErrQuietHoursActive)
	assert.Equal(t, 0, center.AddCalls)
	assert.False(t, n.WasNotificationSent())
}

func TestNotify_ReplacesPreviousSummary(t *testing.T) {
	n, center := newTestNotifier(t, noQuietHours(), daytime())
	ctx := context.Background()

	require.NoError(t, n.NotifyScanCompletion(ctx, 3, 100))
	require.NoError(t, n.NotifyScanCompletion(ctx, 7, 200))

	assert.Equal(t, 1, center.PendingCount())
	request := center.Pending(domain.IdentifierScanCompletion)
	require.NotNil(t, request)
	assert.Equal(t, "7", request.UserInfo["item_count"])
}

func TestNotifyNoItemsFound(t *testing.T) {
	n, center := newTestNotifier(t, noQuietHours(), daytime())

	require.NoError(t, n.NotifyNoItemsFound(context.Background()))

	request := center.Pending(domain.IdentifierScanCompletion)
	require.NotNil(t, request)
	assert.Equal(t, "0", request.UserInfo["item_count"])
	assert.Equal(t, 0, n.LastNotifiedItemCount())
	assert.True(t, n.WasNotificationSent())
}

func TestNotify_GatewayFailureRollsBackState(t *testing.T) {
	n, center := newTestNotifier(t, noQuietHours(), daytime())
	center.AddErr = assert.AnError

	err := n.NotifyScanCompletion(context.Background(), 1, 1)

	assert.ErrorIs(t, err, gateway.ErrSchedulingFailed)
	assert.False(t, n.State().IsScheduled)
	assert.False(t, n.WasNotificationSent())
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "100B", formatSize(100))
	assert.Equal(t, "1.5KB", formatSize(1536))
	assert.Equal(t, "2.0MB", formatSize(2<<20))
	assert.Equal(t, "1.0GB", formatSize(1<<30))
}
