package gatewaytest

import (
	"sync"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// SettingsStub провайдер настроек с подменяемым значением
type SettingsStub struct {
	mu       sync.Mutex
	settings domain.Settings
}

// NewSettingsStub создает провайдер с указанными настройками
func NewSettingsStub(settings domain.Settings) *SettingsStub {
	return &SettingsStub{settings: settings}
}

// Settings возвращает текущие настройки
func (s *SettingsStub) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Set подменяет настройки; имитирует изменение настроек приложением
// между операциями планировщика
func (s *SettingsStub) Set(settings domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// NopLogger логгер, отбрасывающий все сообщения
type NopLogger struct{}

func (NopLogger) Debug(format string, v ...interface{}) {}
func (NopLogger) Info(format string, v ...interface{})  {}
func (NopLogger) Warn(format string, v ...interface{})  {}
func (NopLogger) Error(format string, v ...interface{}) {}
