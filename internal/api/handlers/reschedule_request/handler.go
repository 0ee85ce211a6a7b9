package reschedule_request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mybakup/appointment-service/internal/api/handlers"
	"github.com/mybakup/appointment-service/internal/service/requests"
	"github.com/mybakup/appointment-service/internal/service/requests/models"
)

const (
	msgInvalidRequestID   = "identifiant de demande invalide"
	msgInvalidRequestBody = "corps de requête invalide"
	msgInvalidSlots       = "créneaux proposés invalides (1 à 3 créneaux distincts, à partir d'aujourd'hui)"
	msgNotFound           = "demande de rendez-vous introuvable"
	msgForbidden          = "accès refusé"
	msgInvalidTransition  = "cette demande ne peut plus être reprogrammée"
)

type Handler struct {
	service RequestService
	logger  Logger
}

func NewHandler(service RequestService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointment-requests/{requestId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	requestID, err := strconv.ParseInt(mux.Vars(r)["requestId"], 10, 64)
	if err != nil || requestID <= 0 {
		h.logger.Warn("PATCH /appointment-requests/{id}/reschedule - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	var req models.RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointment-requests/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.Reschedule(r.Context(), requestID, &req)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrInvalidInput):
			h.logger.Warn("PATCH /appointment-requests/{id}/reschedule - Invalid slots: request_id=%d, error=%v", requestID, err)
			handlers.RespondBadRequest(w, msgInvalidSlots)

		case errors.Is(err, requests.ErrRequestNotFound):
			h.logger.Warn("PATCH /appointment-requests/{id}/reschedule - Request not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrAccessDenied):
			h.logger.Warn("PATCH /appointment-requests/{id}/reschedule - Access denied: request_id=%d, user_id=%d", requestID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requests.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointment-requests/{id}/reschedule - Invalid transition: request_id=%d", requestID)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /appointment-requests/{id}/reschedule - Failed to reschedule: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointment-requests/{id}/reschedule - Slots proposed: request_id=%d, count=%d", requestID, len(result.ProposedSlots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
