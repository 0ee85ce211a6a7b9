package submit_wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybakup/appointment-service/internal/api/middleware"
	"github.com/mybakup/appointment-service/internal/domain"
	submitRequest "github.com/mybakup/appointment-service/internal/usecase/submit_request"
	"github.com/mybakup/appointment-service/pkg/logger"
)

type fakeUseCase struct {
	resp *submitRequest.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, _ *submitRequest.Request) (*submitRequest.Response, error) {
	return f.resp, f.err
}

func submit(uc SubmitRequestUseCase) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/wizards/{wizardId}/submit", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/wizards/wiz-1/submit", nil)
	req.Header.Set(middleware.UserIDHeader, "42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Submit(t *testing.T) {
	address := "12 rue des Lilas, Paris"
	uc := &fakeUseCase{resp: &submitRequest.Response{
		RequestID:   5,
		WizardID:    "wiz-1",
		Status:      "pending",
		PatientName: "John Doe",
		ForSelf:     true,
		DoctorID:    "doc-7",
		DoctorName:  "Dr. Martin",
		Slots: []domain.RequestedSlot{
			{Date: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), Period: domain.PeriodMorning},
		},
		LocationType:  "domicile",
		Address:       &address,
		PathologyType: "ponctuelle",
		IsFirstVisit:  true,
		CreatedAt:     time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC),
	}}

	rec := submit(uc)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp ConfirmationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.RequestID)
	assert.Equal(t, "John Doe", resp.PatientName)
	assert.Equal(t, "doc-7", resp.Doctor.ID)
	assert.Equal(t, []SlotResponse{{Date: "2026-10-17", Period: "morning"}}, resp.Slots)
	require.NotNil(t, resp.Location.Address)
	assert.Equal(t, address, *resp.Location.Address)
	assert.Equal(t, "2026-10-16T10:00:00Z", resp.CreatedAt)
}

func TestHandler_SubmitErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", submitRequest.ErrWizardNotFound, http.StatusNotFound},
		{"access denied", submitRequest.ErrAccessDenied, http.StatusForbidden},
		{"conflict", submitRequest.ErrConflict, http.StatusConflict},
		{"persist failed", submitRequest.ErrPersistFailed, http.StatusServiceUnavailable},
		{"already submitted", domain.ErrAlreadySubmitted, http.StatusConflict},
		{"incomplete", domain.ErrIncomplete, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := submit(&fakeUseCase{err: tt.err})
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
