package choose_patient

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mybakup/appointment-service/internal/api/handlers"
	"github.com/mybakup/appointment-service/internal/service/wizard/models"
)

const (
	msgInvalidRequestBody = "corps de requête invalide"
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

// Handle PUT /api/v1/wizards/{wizardId}/patient
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}
	wizardID := mux.Vars(r)["wizardId"]

	var req models.ChoosePatientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /wizards/{id}/patient - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ChoosePatient(r.Context(), userID, wizardID, &req)
	if err != nil {
		if code := handlers.RespondWizardError(w, err); code >= http.StatusInternalServerError {
			h.logger.Error("PUT /wizards/{id}/patient - Failed: wizard_id=%s, user_id=%d, error=%v", wizardID, userID, err)
		} else {
			h.logger.Warn("PUT /wizards/{id}/patient - Rejected with %d: wizard_id=%s, user_id=%d, error=%v", code, wizardID, userID, err)
		}
		return
	}

	h.logger.Info("PUT /wizards/{id}/patient - Patient chosen: wizard_id=%s, user_id=%d", wizardID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
