package schedule_reminder

import (
	"errors"
	"net/http"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/schedule_reminder/models"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
)

const (
	msgNotificationsDisabled = "уведомления отключены в настройках"
	msgPermissionDenied      = "нет разрешения на показ уведомлений"
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
	if err := h.scheduler.ScheduleReminder(r.Context()); err != nil {
		if errors.Is(err, gateway.ErrNotificationsDisabled) {
			handlers.RespondConflict(w, msgNotificationsDisabled)
			return
		}
		if errors.Is(err, gateway.ErrPermissionDenied) {
			handlers.RespondConflict(w, msgPermissionDenied)
			return
		}

		h.logger.Error("Failed to schedule reminder: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	state := h.scheduler.State()
	h.logger.Info("Reminder scheduled (interval: %s)", h.scheduler.LastScheduledInterval())

	handlers.RespondJSON(w, http.StatusOK, models.ReminderStateResponse{
		IsScheduled:  state.IsScheduled,
		NextFireDate: state.NextFireDate,
		Interval:     string(h.scheduler.LastScheduledInterval()),
	})
}
