package get_doctor_requests

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mybakup/appointment-service/internal/api/handlers"
	"github.com/mybakup/appointment-service/internal/service/requests"
	"github.com/mybakup/appointment-service/internal/service/requests/models"
)

const (
	msgInvalidDoctorID = "identifiant du médecin invalide"
	msgInvalidStatus   = "statut invalide"
	msgForbidden       = "accès refusé"
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

// Handle GET /api/v1/doctors/{doctorId}/appointment-requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}
	doctorID := mux.Vars(r)["doctorId"]

	// Получаем status из query параметров (опционально)
	var statusPtr *string
	if status := r.URL.Query().Get("status"); status != "" {
		statusPtr = &status
	}

	result, err := h.service.GetDoctorRequests(r.Context(), &models.GetDoctorRequestsRequest{
		UserID:   userID,
		DoctorID: doctorID,
		Status:   statusPtr,
	})
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{doctorId}/appointment-requests - Invalid doctor ID: %q", doctorID)
			handlers.RespondBadRequest(w, msgInvalidDoctorID)

		case errors.Is(err, requests.ErrInvalidStatus):
			h.logger.Warn("GET /doctors/{doctorId}/appointment-requests - Invalid status: doctor_id=%s", doctorID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, requests.ErrAccessDenied):
			h.logger.Warn("GET /doctors/{doctorId}/appointment-requests - Access denied: doctor_id=%s, user_id=%d",
				doctorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /doctors/{doctorId}/appointment-requests - Failed to get requests: doctor_id=%s, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{doctorId}/appointment-requests - Fetched %d requests: doctor_id=%s", result.Total, doctorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
