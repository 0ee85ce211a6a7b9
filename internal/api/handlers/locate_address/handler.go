package locate_address

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mybakup/appointment-service/internal/api/handlers"
	locateAddress "github.com/mybakup/appointment-service/internal/usecase/locate_address"
)

const (
	msgWizardNotFound = "session de réservation introuvable ou expirée"
	msgForbidden      = "accès refusé"
	msgConflict       = "la réservation a été modifiée, veuillez réessayer"
)

type Handler struct {
	useCase LocateAddressUseCase
	logger  Logger
}

func NewHandler(useCase LocateAddressUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/wizards/{wizardId}/location/geolocate
// Отвечает 202 сразу, адрес появится в сессии после завершения определения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}
	wizardID := mux.Vars(r)["wizardId"]

	result, err := h.useCase.Execute(r.Context(), userID, wizardID)
	if err != nil {
		switch {
		case errors.Is(err, locateAddress.ErrWizardNotFound):
			h.logger.Warn("POST /wizards/{id}/location/geolocate - Wizard not found: wizard_id=%s", wizardID)
			handlers.RespondNotFound(w, msgWizardNotFound)

		case errors.Is(err, locateAddress.ErrAccessDenied):
			h.logger.Warn("POST /wizards/{id}/location/geolocate - Access denied: wizard_id=%s, user_id=%d", wizardID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, locateAddress.ErrConflict):
			h.logger.Warn("POST /wizards/{id}/location/geolocate - Conflict: wizard_id=%s", wizardID)
			handlers.RespondConflict(w, msgConflict)

		default:
			if code := handlers.RespondWizardError(w, err); code >= http.StatusInternalServerError {
				h.logger.Error("POST /wizards/{id}/location/geolocate - Failed: wizard_id=%s, error=%v", wizardID, err)
			} else {
				h.logger.Warn("POST /wizards/{id}/location/geolocate - Rejected with %d: wizard_id=%s, error=%v", code, wizardID, err)
			}
		}
		return
	}

	h.logger.Info("POST /wizards/{id}/location/geolocate - Lookup started: wizard_id=%s, user_id=%d", wizardID, userID)
	handlers.RespondJSON(w, http.StatusAccepted, result)
}
