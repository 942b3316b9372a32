package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NotificationCategory представляет категорию локального уведомления
type NotificationCategory string

const (
	CategoryReminder        NotificationCategory = "reminder"
	CategoryStorageAlert    NotificationCategory = "storage_alert"
	CategoryScanCompletion  NotificationCategory = "scan_completion"
	CategoryTrashExpiration NotificationCategory = "trash_expiration"
)

// Фиксированные идентификаторы pending-запросов по категориям.
// Контракт с внешним сервисом доставки: по этим строкам работают отмена
// и проверка дубликатов, менять их нельзя.
const (
	IdentifierReminder       = "reminder"
	IdentifierStorageAlert   = "storage_alert"
	IdentifierScanCompletion = "scan_completion"

	// TrashWarningPrefix общий префикс идентификаторов предупреждений
	// об истечении корзины; полный идентификатор = префикс + "_" + id элемента
	TrashWarningPrefix = "trash_expiration_warning"
)

// TrashWarningIdentifier формирует составной идентификатор предупреждения
// для конкретного элемента корзины
func TrashWarningIdentifier(itemID string) string {
	return fmt.Sprintf("%s_%s", TrashWarningPrefix, itemID)
}

// IsTrashWarningIdentifier проверяет, принадлежит ли идентификатор
// предупреждениям об истечении корзины
func IsTrashWarningIdentifier(identifier string) bool {
	return strings.HasPrefix(identifier, TrashWarningPrefix)
}

// CategoryForIdentifier возвращает категорию уведомления по его
// идентификатору; пустая категория для неизвестного идентификатора
func CategoryForIdentifier(identifier string) NotificationCategory {
	switch {
	case identifier == IdentifierReminder:
		return CategoryReminder
	case identifier == IdentifierStorageAlert:
		return CategoryStorageAlert
	case identifier == IdentifierScanCompletion:
		return CategoryScanCompletion
	case IsTrashWarningIdentifier(identifier):
		return CategoryTrashExpiration
	}
	return ""
}

// AuthorizationStatus представляет статус разрешения на показ уведомлений
type AuthorizationStatus string

const (
	AuthorizationNotDetermined AuthorizationStatus = "not_determined"
	AuthorizationDenied        AuthorizationStatus = "denied"
	AuthorizationAuthorized    AuthorizationStatus = "authorized"
	AuthorizationProvisional   AuthorizationStatus = "provisional"
)

// IsGranted проверяет, достаточно ли статуса для планирования уведомлений
func (s AuthorizationStatus) IsGranted() bool {
	return s == AuthorizationAuthorized || s == AuthorizationProvisional
}

// UserInfo представляет произвольный payload уведомления
type UserInfo map[string]string

// Value реализует driver.Valuer для записи в БД
func (u UserInfo) Value() (driver.Value, error) {
	if u == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(u)
}

// Scan реализует sql.Scanner для чтения из БД
func (u *UserInfo) Scan(value interface{}) error {
	if value == nil {
		*u = make(UserInfo)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan UserInfo: expected []byte, got %T", value)
	}

	return json.Unmarshal(bytes, u)
}

// PendingRequest представляет запланированное, но ещё не доставленное
// уведомление во внешнем сервисе доставки
type PendingRequest struct {
	Identifier string               `db:"identifier"`
	Title      string               `db:"title"`
	Body       string               `db:"body"`
	Category   NotificationCategory `db:"category"`
	FireAt     time.Time            `db:"fire_at"`
	UserInfo   UserInfo             `db:"user_info"`
	CreatedAt  time.Time            `db:"created_at"`
	UpdatedAt  time.Time            `db:"updated_at"`
}

// IsDue проверяет, наступило ли время доставки
func (r *PendingRequest) IsDue(now time.Time) bool {
	return !r.FireAt.After(now)
}
