package check_storage

import (
	"errors"
	"net/http"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/check_storage/models"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/quiethours"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/storagealert"
)

const (
	msgNotificationsDisabled = "уведомления отключены в настройках"
	msgPermissionDenied      = "нет разрешения на показ уведомлений"
	msgQuietHours            = "сейчас тихие часы, предупреждение не запланировано"
	msgStorageUnavailable    = "данные о хранилище недоступны"
)

type Handler struct {
	scheduler StorageAlertScheduler
	logger    Logger
}

func NewHandler(scheduler StorageAlertScheduler, logger Logger) *Handler {
	return &Handler{
		scheduler: scheduler,
		logger:    logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	scheduled, err := h.scheduler.CheckAndScheduleIfNeeded(r.Context())
	if err != nil {
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
		if errors.Is(err, storagealert.ErrStorageInfoUnavailable) {
			h.logger.Warn("Storage info unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)
			return
		}

		h.logger.Error("Storage check failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if scheduled {
		h.logger.Info("Storage alert scheduled (usage: %.1f%%)", h.scheduler.LastUsagePercentage()*100)
	}

	handlers.RespondJSON(w, http.StatusOK, models.CheckStorageResponse{
		AlertScheduled:  scheduled,
		UsagePercentage: h.scheduler.LastUsagePercentage(),
		AvailableSpace:  h.scheduler.LastAvailableSpace(),
	})
}
