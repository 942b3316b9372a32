package settingsstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// fileSchema формат файла настроек
type fileSchema struct {
	Settings      domain.Settings            `json:"settings"`
	Authorization domain.AuthorizationStatus `json:"authorization"`
}

// Store файловое хранилище настроек уведомлений и статуса разрешения.
// Настройки принадлежат приложению: движок планирования только читает их,
// перечитывая файл при каждом обращении, чтобы немедленно видеть внешние
// изменения. Статус разрешения, напротив, пишется движком.
type Store struct {
	mu       sync.RWMutex
	filePath string
	// last последнее успешно прочитанное состояние; используется как
	// фолбэк при ошибке чтения файла
	last fileSchema
}

// New создает хранилище настроек поверх указанного файла
func New(filePath string) *Store {
	return &Store{
		filePath: filePath,
		last: fileSchema{
			Settings:      domain.DefaultSettings(),
			Authorization: domain.AuthorizationNotDetermined,
		},
	}
}

// Load читает файл; отсутствующий или пустой файл инициализируется
// значениями по умолчанию
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked()
}

// Settings возвращает текущие настройки, перечитывая файл.
// При ошибке чтения возвращается последнее известное состояние.
func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.loadLocked()
	return s.last.Settings
}

// UpdateSettings записывает новые настройки, сохраняя статус разрешения
func (s *Store) UpdateSettings(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	s.last.Settings = settings
	return s.saveLocked()
}

// Authorization возвращает сохранённый статус разрешения
func (s *Store) Authorization() domain.AuthorizationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.loadLocked()
	return s.last.Authorization
}

// SetAuthorization сохраняет статус разрешения
func (s *Store) SetAuthorization(status domain.AuthorizationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	s.last.Authorization = status
	return s.saveLocked()
}

func (s *Store) loadLocked() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var schema fileSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if schema.Authorization == "" {
		schema.Authorization = domain.AuthorizationNotDetermined
	}
	if schema.Settings.ReminderInterval == "" {
		schema.Settings.ReminderInterval = domain.ReminderIntervalWeekly
	}

	s.last = schema
	return nil
}

func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.last, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
