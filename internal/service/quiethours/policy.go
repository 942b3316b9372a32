package quiethours

import (
	"errors"
	"time"
)

var (
	// ErrQuietHoursActive возвращается планировщиками, для которых попадание
	// в тихие часы является жёсткой блокировкой, а не переносом
	ErrQuietHoursActive = errors.New("service.quiethours: quiet hours are active")
)

// InWindow проверяет попадание часа в окно тихих часов.
// Окно [start, end) с переходом через полночь, когда start >= end.
func InWindow(hour, startHour, endHour int) bool {
	if startHour < endHour {
		return hour >= startHour && hour < endHour
	}
	return hour >= startHour || hour < endHour
}

// Contains проверяет, попадает ли момент времени в тихие часы
func Contains(date time.Time, enabled bool, startHour, endHour int) bool {
	if !enabled {
		return false
	}
	return InWindow(date.Hour(), startHour, endHour)
}

// Adjust переносит момент времени из тихих часов.
// Если тихие часы выключены или момент вне окна, возвращается без изменений.
// Иначе возвращается момент в (endHour+1):00:00 того же календарного дня:
// час после окончания окна, чтобы уведомление не пришло ровно на границе.
func Adjust(date time.Time, enabled bool, startHour, endHour int) time.Time {
	if !Contains(date, enabled, startHour, endHour) {
		return date
	}

	deferredHour := (endHour + 1) % 24
	return time.Date(date.Year(), date.Month(), date.Day(), deferredHour, 0, 0, 0, date.Location())
}
