package domain

import "time"

// ReminderInterval представляет периодичность напоминаний об очистке
type ReminderInterval string

const (
	ReminderIntervalDaily    ReminderInterval = "daily"
	ReminderIntervalWeekly   ReminderInterval = "weekly"
	ReminderIntervalBiweekly ReminderInterval = "biweekly"
	ReminderIntervalMonthly  ReminderInterval = "monthly"
	ReminderIntervalNever    ReminderInterval = "never"
)

// IsNever проверяет, отключены ли периодические напоминания
func (i ReminderInterval) IsNever() bool {
	return i == ReminderIntervalNever
}

// IsValid проверяет, что значение интервала известно системе
func (i ReminderInterval) IsValid() bool {
	switch i {
	case ReminderIntervalDaily, ReminderIntervalWeekly, ReminderIntervalBiweekly,
		ReminderIntervalMonthly, ReminderIntervalNever:
		return true
	}
	return false
}

// AddTo добавляет смещение интервала к базовому моменту времени.
// Для daily смещение нулевое: базовый момент уже гарантированно в будущем.
func (i ReminderInterval) AddTo(base time.Time) time.Time {
	switch i {
	case ReminderIntervalWeekly:
		return base.AddDate(0, 0, 7)
	case ReminderIntervalBiweekly:
		return base.AddDate(0, 0, 14)
	case ReminderIntervalMonthly:
		return base.AddDate(0, 1, 0)
	default:
		return base
	}
}

// Settings представляет настройки уведомлений, управляемые приложением.
// Движок планирования читает их заново при каждой операции и никогда
// не пишет.
type Settings struct {
	Enabled               bool             `json:"enabled"`
	ReminderEnabled       bool             `json:"reminder_enabled"`
	ReminderInterval      ReminderInterval `json:"reminder_interval"`
	StorageAlertEnabled   bool             `json:"storage_alert_enabled"`
	StorageAlertThreshold float64          `json:"storage_alert_threshold"`
	QuietHoursEnabled     bool             `json:"quiet_hours_enabled"`
	QuietHoursStart       int              `json:"quiet_hours_start"`
	QuietHoursEnd         int              `json:"quiet_hours_end"`
}

// DefaultSettings возвращает настройки по умолчанию для первого запуска
func DefaultSettings() Settings {
	return Settings{
		Enabled:               true,
		ReminderEnabled:       true,
		ReminderInterval:      ReminderIntervalWeekly,
		StorageAlertEnabled:   true,
		StorageAlertThreshold: 0.9,
		QuietHoursEnabled:     true,
		QuietHoursStart:       22,
		QuietHoursEnd:         8,
	}
}
