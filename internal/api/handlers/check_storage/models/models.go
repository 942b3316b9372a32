package models

// CheckStorageResponse HTTP ответ с результатом проверки хранилища
type CheckStorageResponse struct {
	AlertScheduled  bool    `json:"alert_scheduled"`
	UsagePercentage float64 `json:"usage_percentage"`
	AvailableSpace  int64   `json:"available_space"`
}
