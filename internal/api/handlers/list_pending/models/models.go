package models

import (
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// PendingRequestResponse HTTP модель pending-запроса
type PendingRequestResponse struct {
	Identifier string            `json:"identifier"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Category   string            `json:"category"`
	FireAt     time.Time         `json:"fire_at"`
	UserInfo   map[string]string `json:"user_info,omitempty"`
}

// ListResponse HTTP ответ со списком pending-запросов
type ListResponse struct {
	Requests []PendingRequestResponse `json:"requests"`
	Total    int                      `json:"total"`
}

// FromDomainRequests преобразует доменные модели в HTTP ответ
func FromDomainRequests(requests []*domain.PendingRequest) ListResponse {
	out := make([]PendingRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, PendingRequestResponse{
			Identifier: r.Identifier,
			Title:      r.Title,
			Body:       r.Body,
			Category:   string(r.Category),
			FireAt:     r.FireAt,
			UserInfo:   r.UserInfo,
		})
	}
	return ListResponse{Requests: out, Total: len(out)}
}
