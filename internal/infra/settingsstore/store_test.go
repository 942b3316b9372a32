package settingsstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "settings.json"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Load())

	assert.Equal(t, domain.DefaultSettings(), store.Settings())
	assert.Equal(t, domain.AuthorizationNotDetermined, store.Authorization())
}

func TestUpdateSettings_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	settings := domain.DefaultSettings()
	settings.ReminderInterval = domain.ReminderIntervalMonthly
	settings.StorageAlertThreshold = 0.75

	require.NoError(t, store.UpdateSettings(settings))

	assert.Equal(t, settings, store.Settings())
}

func TestSettings_ObservesExternalWrites(t *testing.T) {
	// Два стора поверх одного файла имитируют приложение и движок
	path := filepath.Join(t.TempDir(), "settings.json")
	app := New(path)
	engine := New(path)

	settings := domain.DefaultSettings()
	settings.Enabled = false
	require.NoError(t, app.UpdateSettings(settings))

	assert.False(t, engine.Settings().Enabled)
}

func TestSetAuthorization_PreservesSettings(t *testing.T) {
	store := newTestStore(t)

	settings := domain.DefaultSettings()
	settings.QuietHoursStart = 23
	require.NoError(t, store.UpdateSettings(settings))

	require.NoError(t, store.SetAuthorization(domain.AuthorizationAuthorized))

	assert.Equal(t, domain.AuthorizationAuthorized, store.Authorization())
	assert.Equal(t, 23, store.Settings().QuietHoursStart)
}
