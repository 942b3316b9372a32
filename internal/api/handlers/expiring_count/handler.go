package expiring_count

import (
	"net/http"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
)

// CountResponse HTTP ответ с количеством истекающих элементов
type CountResponse struct {
	Count int `json:"count"`
}

type Handler struct {
	warner TrashWarner
	logger Logger
}

func NewHandler(warner TrashWarner, logger Logger) *Handler {
	return &Handler{
		warner: warner,
		logger: logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	count, err := h.warner.GetExpiringItemCount(r.Context())
	if err != nil {
		h.logger.Error("Failed to count expiring trash items: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, CountResponse{Count: count})
}
