package trashstore

import (
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// trashItemModel запись элемента корзины в SQLite
type trashItemModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name"`
	TrashedAt time.Time `gorm:"column:trashed_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
}

// TableName задаёт имя таблицы для GORM
func (trashItemModel) TableName() string {
	return "trash_items"
}

// toDomain конвертирует запись в доменную модель
func (m *trashItemModel) toDomain() domain.TrashItem {
	return domain.TrashItem{
		ID:        m.ID,
		Name:      m.Name,
		TrashedAt: m.TrashedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

// fromDomain конвертирует доменную модель в запись
func fromDomain(item domain.TrashItem) trashItemModel {
	return trashItemModel{
		ID:        item.ID,
		Name:      item.Name,
		TrashedAt: item.TrashedAt,
		ExpiresAt: item.ExpiresAt,
	}
}
