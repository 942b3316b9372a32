package scan_completed

import (
	"errors"
	"net/http"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/scan_completed/models"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/quiethours"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/scancomplete"
)

const (
	msgInvalidRequestBody    = "неверный формат тела запроса"
	msgInvalidParameters     = "количество элементов и размер должны быть неотрицательными"
	msgNotificationsDisabled = "уведомления отключены в настройках"
	msgPermissionDenied      = "нет разрешения на показ уведомлений"
	msgQuietHours            = "сейчас тихие часы, сводка не запланирована"
)

type Handler struct {
	notifier ScanNotifier
	logger   Logger
}

func NewHandler(notifier ScanNotifier, logger Logger) *Handler {
	return &Handler{
		notifier: notifier,
		logger:   logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.ScanCompletedRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("Failed to decode request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.notifier.NotifyScanCompletion(r.Context(), req.ItemCount, req.TotalSize); err != nil {
		if errors.Is(err, scancomplete.ErrInvalidParameters) {
			handlers.RespondBadRequest(w, msgInvalidParameters)
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
		if errors.Is(err, quiethours.ErrQuietHoursActive) {
			handlers.RespondConflict(w, msgQuietHours)
			return
		}

		h.logger.Error("Failed to notify scan completion: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	state := h.notifier.State()
	h.logger.Info("Scan completion notification scheduled (items: %d, size: %d)", req.ItemCount, req.TotalSize)

	handlers.RespondJSON(w, http.StatusOK, models.ScanCompletedResponse{
		Notified: state.IsScheduled,
		FireAt:   state.NextFireDate,
	})
}
