package models

import (
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// AddTrashItemRequest HTTP запрос на регистрацию элемента корзины
type AddTrashItemRequest struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToDomainItem преобразует HTTP модель в доменную
func (r *AddTrashItemRequest) ToDomainItem() domain.TrashItem {
	return domain.TrashItem{
		ID:        r.ID,
		Name:      r.Name,
		ExpiresAt: r.ExpiresAt,
	}
}

// TrashItemResponse HTTP ответ с данными элемента корзины
type TrashItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TrashedAt time.Time `json:"trashed_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FromDomainItem преобразует доменную модель в HTTP ответ
func FromDomainItem(item domain.TrashItem) TrashItemResponse {
	return TrashItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		TrashedAt: item.TrashedAt,
		ExpiresAt: item.ExpiresAt,
	}
}
