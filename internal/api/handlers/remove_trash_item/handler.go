package remove_trash_item

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/integrations/trashstore"
)

const (
	msgMissingID    = "не указан идентификатор элемента"
	msgItemNotFound = "элемент корзины не найден"
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
	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		handlers.RespondBadRequest(w, msgMissingID)
		return
	}

	if err := h.store.Remove(r.Context(), id); err != nil {
		if errors.Is(err, trashstore.ErrItemNotFound) {
			handlers.RespondNotFound(w, msgItemNotFound)
			return
		}

		h.logger.Error("Failed to remove trash item %s: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	// Удалённый элемент мог быть целью предупреждения: пересчитываем
	if err := h.warner.ScheduleExpirationWarning(r.Context()); err != nil {
		h.logger.Warn("Failed to refresh expiration warning after removing item %s: %v", id, err)
	}

	h.logger.Info("Removed trash item %s", id)
	w.WriteHeader(http.StatusNoContent)
}
