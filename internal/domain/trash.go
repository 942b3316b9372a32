package domain

import "time"

// TrashItem представляет элемент корзины с моментом окончательного удаления
type TrashItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TrashedAt time.Time `json:"trashed_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired проверяет, истёк ли срок хранения элемента
func (t *TrashItem) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// ExpiresWithin проверяет, истекает ли элемент в течение указанного окна
func (t *TrashItem) ExpiresWithin(now time.Time, window time.Duration) bool {
	return !t.ExpiresAt.After(now.Add(window))
}
