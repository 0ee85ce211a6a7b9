package submit_wizard

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mybakup/appointment-service/internal/api/handlers"
	submitRequest "github.com/mybakup/appointment-service/internal/usecase/submit_request"
)

const (
	msgWizardNotFound = "session de réservation introuvable ou expirée"
	msgForbidden      = "accès refusé"
	msgConflict       = "la réservation a été modifiée, veuillez réessayer"
	msgPersistFailed  = "la demande n'a pas pu être enregistrée, veuillez réessayer"
)

type Handler struct {
	useCase SubmitRequestUseCase
	logger  Logger
}

func NewHandler(useCase SubmitRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/wizards/{wizardId}/submit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}
	wizardID := mux.Vars(r)["wizardId"]

	result, err := h.useCase.Execute(r.Context(), &submitRequest.Request{
		UserID:   userID,
		WizardID: wizardID,
	})
	if err != nil {
		switch {
		case errors.Is(err, submitRequest.ErrWizardNotFound):
			h.logger.Warn("POST /wizards/{id}/submit - Wizard not found: wizard_id=%s", wizardID)
			handlers.RespondNotFound(w, msgWizardNotFound)

		case errors.Is(err, submitRequest.ErrAccessDenied):
			h.logger.Warn("POST /wizards/{id}/submit - Access denied: wizard_id=%s, user_id=%d", wizardID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, submitRequest.ErrConflict):
			h.logger.Warn("POST /wizards/{id}/submit - Conflict: wizard_id=%s", wizardID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, submitRequest.ErrPersistFailed):
			h.logger.Error("POST /wizards/{id}/submit - Failed to persist request: wizard_id=%s, error=%v", wizardID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgPersistFailed)

		default:
			if code := handlers.RespondWizardError(w, err); code >= http.StatusInternalServerError {
				h.logger.Error("POST /wizards/{id}/submit - Failed: wizard_id=%s, error=%v", wizardID, err)
			} else {
				h.logger.Warn("POST /wizards/{id}/submit - Rejected with %d: wizard_id=%s, error=%v", code, wizardID, err)
			}
		}
		return
	}

	h.logger.Info("POST /wizards/{id}/submit - Request created: request_id=%d, wizard_id=%s, user_id=%d",
		result.RequestID, wizardID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
