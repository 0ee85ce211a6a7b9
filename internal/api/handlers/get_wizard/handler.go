package get_wizard

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

// Handle GET /api/v1/wizards/{wizardId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}
	wizardID := mux.Vars(r)["wizardId"]

	result, err := h.service.Get(r.Context(), userID, wizardID)
	if err != nil {
		if code := handlers.RespondWizardError(w, err); code >= http.StatusInternalServerError {
			h.logger.Error("GET /wizards/{id} - Failed: wizard_id=%s, user_id=%d, error=%v", wizardID, userID, err)
		} else {
			h.logger.Warn("GET /wizards/{id} - Rejected with %d: wizard_id=%s, user_id=%d, error=%v", code, wizardID, userID, err)
		}
		return
	}

	h.logger.Info("GET /wizards/{id} - Wizard fetched: wizard_id=%s, user_id=%d", wizardID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
