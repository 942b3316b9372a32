package models

import "time"

// ScanCompletedRequest HTTP запрос с результатами сканирования
type ScanCompletedRequest struct {
	ItemCount int   `json:"item_count"`
	TotalSize int64 `json:"total_size"`
}

// ScanCompletedResponse HTTP ответ с состоянием уведомления о сканировании
type ScanCompletedResponse struct {
	Notified bool       `json:"notified"`
	FireAt   *time.Time `json:"fire_at,omitempty"`
}
