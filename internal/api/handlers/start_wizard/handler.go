package start_wizard

import (
	"net/http"

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

// Handle POST /api/v1/wizards
// Без данных врача мастер не открывается (400)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req models.StartWizardRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /wizards - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.Start(r.Context(), &req)
	if err != nil {
		if code := handlers.RespondWizardError(w, err); code >= http.StatusInternalServerError {
			h.logger.Error("POST /wizards - Failed to start wizard: user_id=%d, error=%v", userID, err)
		} else {
			h.logger.Warn("POST /wizards - Rejected with %d: user_id=%d, error=%v", code, userID, err)
		}
		return
	}

	h.logger.Info("POST /wizards - Wizard started: wizard_id=%s, user_id=%d, doctor_id=%s",
		result.ID, userID, result.Doctor.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
