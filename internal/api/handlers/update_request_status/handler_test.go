package update_request_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybakup/appointment-service/internal/api/middleware"
	"github.com/mybakup/appointment-service/internal/service/requests"
	"github.com/mybakup/appointment-service/internal/service/requests/models"
	"github.com/mybakup/appointment-service/pkg/logger"
)

type fakeService struct {
	gotID  int64
	gotReq *models.UpdateStatusRequest
	err    error
}

func (f *fakeService) UpdateStatus(_ context.Context, requestID int64, req *models.UpdateStatusRequest) (*models.AppointmentRequestResponse, error) {
	f.gotID = requestID
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentRequestResponse{ID: requestID, Status: req.Status}, nil
}

func patch(svc RequestService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/appointment-requests/{requestId}/status", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_UpdateStatus(t *testing.T) {
	svc := &fakeService{}

	rec := patch(svc, "/appointment-requests/3/status", `{"status":"confirmed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.gotID)
	assert.Equal(t, int64(7), svc.gotReq.UserID)
	assert.Equal(t, "confirmed", svc.gotReq.Status)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestHandler_UpdateStatusErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		err  error
		want int
	}{
		{"bad id", "/appointment-requests/abc/status", `{"status":"confirmed"}`, nil, http.StatusBadRequest},
		{"bad body", "/appointment-requests/3/status", `{"status":`, nil, http.StatusBadRequest},
		{"invalid status", "/appointment-requests/3/status", `{"status":"done"}`, requests.ErrInvalidStatus, http.StatusBadRequest},
		{"not found", "/appointment-requests/3/status", `{"status":"confirmed"}`, requests.ErrRequestNotFound, http.StatusNotFound},
		{"other doctor", "/appointment-requests/3/status", `{"status":"confirmed"}`, requests.ErrAccessDenied, http.StatusForbidden},
		{"transition", "/appointment-requests/3/status", `{"status":"pending"}`, requests.ErrInvalidTransition, http.StatusConflict},
		{"internal", "/appointment-requests/3/status", `{"status":"confirmed"}`, requests.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := patch(&fakeService{err: tt.err}, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
