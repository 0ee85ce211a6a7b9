package discard_wizard

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mybakup/appointment-service/internal/api/handlers"
)

type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/wizards/{wizardId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}
	wizardID := mux.Vars(r)["wizardId"]

	err := h.service.Discard(r.Context(), userID, wizardID)
	if err != nil {
		if code := handlers.RespondWizardError(w, err); code >= http.StatusInternalServerError {
			h.logger.Error("DELETE /wizards/{id} - Failed: wizard_id=%s, user_id=%d, error=%v", wizardID, userID, err)
		} else {
			h.logger.Warn("DELETE /wizards/{id} - Rejected with %d: wizard_id=%s, user_id=%d, error=%v", code, wizardID, userID, err)
		}
		return
	}

	h.logger.Info("DELETE /wizards/{id} - Wizard discarded: wizard_id=%s, user_id=%d", wizardID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
