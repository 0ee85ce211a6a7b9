package update_request_status

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
	msgInvalidStatus      = "statut invalide"
	msgNotFound           = "demande de rendez-vous introuvable"
	msgForbidden          = "accès refusé"
	msgInvalidTransition  = "changement de statut non autorisé"
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

// Handle PATCH /api/v1/appointment-requests/{requestId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	requestID, err := strconv.ParseInt(mux.Vars(r)["requestId"], 10, 64)
	if err != nil || requestID <= 0 {
		h.logger.Warn("PATCH /appointment-requests/{id}/status - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointment-requests/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.UpdateStatus(r.Context(), requestID, &req)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrInvalidStatus):
			h.logger.Warn("PATCH /appointment-requests/{id}/status - Invalid status: request_id=%d, status=%s", requestID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, requests.ErrRequestNotFound):
			h.logger.Warn("PATCH /appointment-requests/{id}/status - Request not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrAccessDenied):
			h.logger.Warn("PATCH /appointment-requests/{id}/status - Access denied: request_id=%d, user_id=%d", requestID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requests.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointment-requests/{id}/status - Invalid transition: request_id=%d, status=%s", requestID, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /appointment-requests/{id}/status - Failed to update status: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointment-requests/{id}/status - Status updated: request_id=%d, status=%s", requestID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
