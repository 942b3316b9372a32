package add_trash_item

import (
	"net/http"
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/add_trash_item/models"
)

const (
	msgInvalidRequestBody = "неверный формат тела запроса"
	msgInvalidExpiry      = "дата истечения должна быть в будущем"
)

type Handler struct {
	store  TrashStore
	warner TrashWarner
	logger Logger
}

func NewHandler(store TrashStore, warner TrashWarner, logger Logger) *Handler {
	return &Handler{
		store:  store,
		warner: warner,
		logger: logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.AddTrashItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("Failed to decode request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if !req.ExpiresAt.After(time.Now()) {
		handlers.RespondBadRequest(w, msgInvalidExpiry)
		return
	}

	item, err := h.store.Register(r.Context(), req.ToDomainItem())
	if err != nil {
		h.logger.Error("Failed to register trash item: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	// Новый элемент может стать ближайшим к истечению: актуализируем
	// предупреждение, но ошибки предусловий клиенту не возвращаем
	if err := h.warner.ScheduleExpirationWarning(r.Context()); err != nil {
		h.logger.Warn("Failed to refresh expiration warning after adding item %s: %v", item.ID, err)
	}

	h.logger.Info("Registered trash item %s (expires: %s)", item.ID, item.ExpiresAt.Format(time.RFC3339))
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainItem(item))
}
