package schedule_trash_warning

import (
	"errors"
	"net/http"
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/trashwarn"
)

const (
	msgNotificationsDisabled = "уведомления отключены в настройках"
	msgPermissionDenied      = "нет разрешения на показ уведомлений"
)

// WarningResponse HTTP ответ с состоянием предупреждения об истечении
type WarningResponse struct {
	Scheduled bool       `json:"scheduled"`
	ItemID    string     `json:"item_id,omitempty"`
	FireAt    *time.Time `json:"fire_at,omitempty"`
	Reason    string     `json:"reason,omitempty"`
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
	if err := h.warner.ScheduleExpirationWarning(r.Context()); err != nil {
		// Пустая корзина и отсутствие истекающих элементов: штатный
		// исход, предупреждение просто не нужно
		if errors.Is(err, trashwarn.ErrTrashEmpty) {
			handlers.RespondJSON(w, http.StatusOK, WarningResponse{Scheduled: false, Reason: "trash_empty"})
			return
		}
		if errors.Is(err, trashwarn.ErrNoExpiringItems) {
			handlers.RespondJSON(w, http.StatusOK, WarningResponse{Scheduled: false, Reason: "no_expiring_items"})
			return
		}
		if errors.Is(err, gateway.ErrNotificationsDisabled) {
			handlers.RespondConflict(w, msgNotificationsDisabled)
			return
		}
		if errors.Is(err, gateway.ErrPermissionDenied) {
			handlers.RespondConflict(w, msgPermissionDenied)
			return
		}

		h.logger.Error("Failed to schedule expiration warning: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	state := h.warner.State()
	h.logger.Info("Expiration warning scheduled for item %s", h.warner.LastWarnedItemID())

	handlers.RespondJSON(w, http.StatusOK, WarningResponse{
		Scheduled: state.IsScheduled,
		ItemID:    h.warner.LastWarnedItemID(),
		FireAt:    state.NextFireDate,
	})
}
