package models

import "time"

// ReminderStateResponse HTTP ответ с состоянием планировщика напоминаний
type ReminderStateResponse struct {
	IsScheduled  bool       `json:"is_scheduled"`
	NextFireDate *time.Time `json:"next_fire_date,omitempty"`
	Interval     string     `json:"interval,omitempty"`
}
