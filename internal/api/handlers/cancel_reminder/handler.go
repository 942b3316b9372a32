package cancel_reminder

import (
	"net/http"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
)

type Handler struct {
	scheduler ReminderScheduler
	logger    Logger
}

func NewHandler(scheduler ReminderScheduler, logger Logger) *Handler {
	return &Handler{
		scheduler: scheduler,
		logger:    logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.CancelReminder(r.Context()); err != nil {
		h.logger.Error("Failed to cancel reminder: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("Reminder cancelled")
	w.WriteHeader(http.StatusNoContent)
}
