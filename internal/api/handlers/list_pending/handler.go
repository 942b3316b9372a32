package list_pending

import (
	"net/http"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/list_pending/models"
)

type Handler struct {
	gateway NotificationGateway
	logger  Logger
}

func NewHandler(gateway NotificationGateway, logger Logger) *Handler {
	return &Handler{
		gateway: gateway,
		logger:  logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requests, err := h.gateway.ListPending(r.Context())
	if err != nil {
		h.logger.Error("Failed to list pending requests: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainRequests(requests))
}
