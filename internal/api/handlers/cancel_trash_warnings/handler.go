package cancel_trash_warnings

import (
	"net/http"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
)

// CancelledResponse HTTP ответ с количеством снятых предупреждений
type CancelledResponse struct {
	Cancelled int `json:"cancelled"`
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
	cancelled, err := h.warner.CancelAllExpirationWarnings(r.Context())
	if err != nil {
		h.logger.Error("Failed to cancel expiration warnings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("Cancelled %d expiration warning(s)", cancelled)
	handlers.RespondJSON(w, http.StatusOK, CancelledResponse{Cancelled: cancelled})
}
