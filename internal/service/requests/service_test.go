package requests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybakup/appointment-service/internal/domain"
	appointmentRepo "github.com/mybakup/appointment-service/internal/infra/storage/appointment"
	"github.com/mybakup/appointment-service/internal/service/requests/models"
	"github.com/mybakup/appointment-service/pkg/logger"
	"github.com/mybakup/appointment-service/pkg/ptr"
)

type fakeRepo struct {
	requests   map[int64]*domain.AppointmentRequest
	lastFilter domain.DoctorRequestsFilter
	listErr    error
	updateErr  error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.AppointmentRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, appointmentRepo.ErrRequestNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepo) GetByDoctorWithFilter(_ context.Context, filter domain.DoctorRequestsFilter) ([]*domain.AppointmentRequest, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.AppointmentRequest
	for _, r := range f.requests {
		if r.DoctorID == filter.DoctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.RequestStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	r, ok := f.requests[id]
	if !ok {
		return appointmentRepo.ErrRequestNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRepo) UpdateProposal(_ context.Context, id int64, status domain.RequestStatus, slots []domain.RequestedSlot) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	r, ok := f.requests[id]
	if !ok {
		return appointmentRepo.ErrRequestNotFound
	}
	r.Status = status
	r.ProposedSlots = slots
	return nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type fakeTxManager struct {
	calls int
	err   error
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakeMetrics struct {
	statuses []string
}

func (f *fakeMetrics) RequestStatusChanged(status string) {
	f.statuses = append(f.statuses, status)
}

func newRepo() *fakeRepo {
	created := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	return &fakeRepo{
		requests: map[int64]*domain.AppointmentRequest{
			1: {
				ID:          1,
				WizardID:    "wiz-1",
				UserID:      42,
				DoctorID:    "7",
				PatientName: "John Doe",
				ForSelf:     true,
				Slots: []domain.RequestedSlot{
					{Date: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), Period: domain.PeriodMorning},
				},
				LocationType:  domain.LocationCabinet,
				PathologyType: domain.PathologyPonctuelle,
				IsFirstVisit:  true,
				Status:        domain.RequestPending,
				CreatedAt:     created,
				UpdatedAt:     created,
			},
			2: {
				ID:       2,
				WizardID: "wiz-2",
				DoctorID: "8",
				Status:   domain.RequestConfirmed,
			},
		},
	}
}

func TestService_GetDoctorRequests(t *testing.T) {
	repo := newRepo()
	svc := NewService(repo, &fakeTxManager{}, nil, nil, logger.NewNop())

	resp, err := svc.GetDoctorRequests(context.Background(), &models.GetDoctorRequestsRequest{UserID: 7, DoctorID: "7"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(1), resp.Requests[0].ID)
	assert.Equal(t, "pending", resp.Requests[0].Status)
	assert.Equal(t, []models.SlotResponse{{Date: "2026-10-17", Period: "morning"}}, resp.Requests[0].Slots)
	assert.Nil(t, repo.lastFilter.Status)
}

func TestService_GetDoctorRequests_StatusFilter(t *testing.T) {
	repo := newRepo()
	svc := NewService(repo, &fakeTxManager{}, nil, nil, logger.NewNop())

	_, err := svc.GetDoctorRequests(context.Background(), &models.GetDoctorRequestsRequest{
		UserID:   7,
		DoctorID: "7",
		Status:   ptr.Ptr("waiting"),
	})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.RequestWaiting, *repo.lastFilter.Status)
}

func TestService_GetDoctorRequests_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.GetDoctorRequestsRequest
		listErr error
		wantErr error
	}{
		{
			name:    "empty doctor",
			req:     &models.GetDoctorRequestsRequest{UserID: 7, DoctorID: " "},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "other doctor",
			req:     &models.GetDoctorRequestsRequest{UserID: 7, DoctorID: "8"},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "invalid status",
			req:     &models.GetDoctorRequestsRequest{UserID: 7, DoctorID: "7", Status: ptr.Ptr("archived")},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "repository error",
			req:     &models.GetDoctorRequestsRequest{UserID: 7, DoctorID: "7"},
			listErr: errors.New("db down"),
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo()
			repo.listErr = tt.listErr
			svc := NewService(repo, &fakeTxManager{}, nil, nil, logger.NewNop())

			_, err := svc.GetDoctorRequests(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	repo := newRepo()
	tx := &fakeTxManager{}
	metrics := &fakeMetrics{}
	svc := NewService(repo, tx, metrics, nil, logger.NewNop())

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: 7, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, domain.RequestConfirmed, repo.requests[1].Status)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, []string{"confirmed"}, metrics.statuses)

	resp, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: 7, Status: "in_progress"})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name      string
		requestID int64
		req       *models.UpdateStatusRequest
		txErr     error
		updateErr error
		wantErr   error
	}{
		{
			name:      "invalid status",
			requestID: 1,
			req:       &models.UpdateStatusRequest{UserID: 7, Status: "done"},
			wantErr:   ErrInvalidStatus,
		},
		{
			name:      "not found",
			requestID: 99,
			req:       &models.UpdateStatusRequest{UserID: 7, Status: "confirmed"},
			wantErr:   ErrRequestNotFound,
		},
		{
			name:      "other doctor",
			requestID: 1,
			req:       &models.UpdateStatusRequest{UserID: 8, Status: "confirmed"},
			wantErr:   ErrAccessDenied,
		},
		{
			name:      "pending to in progress",
			requestID: 1,
			req:       &models.UpdateStatusRequest{UserID: 7, Status: "in_progress"},
			wantErr:   ErrInvalidTransition,
		},
		{
			name:      "back to pending",
			requestID: 2,
			req:       &models.UpdateStatusRequest{UserID: 8, Status: "pending"},
			wantErr:   ErrInvalidTransition,
		},
		{
			name:      "update error",
			requestID: 1,
			req:       &models.UpdateStatusRequest{UserID: 7, Status: "rejected"},
			updateErr: errors.New("db down"),
			wantErr:   ErrInternal,
		},
		{
			name:      "begin error",
			requestID: 1,
			req:       &models.UpdateStatusRequest{UserID: 7, Status: "rejected"},
			txErr:     errors.New("txmanager: begin: connection refused"),
			wantErr:   ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo()
			repo.updateErr = tt.updateErr
			metrics := &fakeMetrics{}
			svc := NewService(repo, &fakeTxManager{err: tt.txErr}, metrics, nil, logger.NewNop())

			_, err := svc.UpdateStatus(context.Background(), tt.requestID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, metrics.statuses)
		})
	}
}

func TestService_Reschedule(t *testing.T) {
	repo := newRepo()
	tx := &fakeTxManager{}
	metrics := &fakeMetrics{}
	clock := &fixedTime{now: time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)}
	svc := NewService(repo, tx, metrics, clock, logger.NewNop())

	resp, err := svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{
		UserID: 7,
		Slots: []models.ProposedSlotRequest{
			{Date: "2026-10-20", Period: "afternoon"},
			{Date: "2026-10-21", Period: "morning"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "waiting", resp.Status)
	assert.Equal(t, []models.SlotResponse{
		{Date: "2026-10-20", Period: "afternoon"},
		{Date: "2026-10-21", Period: "morning"},
	}, resp.ProposedSlots)
	assert.Equal(t, []models.SlotResponse{{Date: "2026-10-17", Period: "morning"}}, resp.Slots)
	assert.Equal(t, domain.RequestWaiting, repo.requests[1].Status)
	require.Len(t, repo.requests[1].ProposedSlots, 2)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, []string{"waiting"}, metrics.statuses)

	// повторное предложение заменяет прежнее
	resp, err = svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{
		UserID: 7,
		Slots:  []models.ProposedSlotRequest{{Date: "2026-10-17", Period: "afternoon"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.SlotResponse{{Date: "2026-10-17", Period: "afternoon"}}, resp.ProposedSlots)
}

func TestService_Reschedule_Errors(t *testing.T) {
	slot := func(date string) models.ProposedSlotRequest {
		return models.ProposedSlotRequest{Date: date, Period: "morning"}
	}

	tests := []struct {
		name      string
		requestID int64
		req       *models.RescheduleRequest
		txErr     error
		updateErr error
		wantErr   error
		wantTx    bool
	}{
		{
			name:      "no slot",
			requestID: 1,
			req:       &models.RescheduleRequest{UserID: 7},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "more than three slots",
			requestID: 1,
			req: &models.RescheduleRequest{UserID: 7, Slots: []models.ProposedSlotRequest{
				slot("2026-10-20"), slot("2026-10-21"), slot("2026-10-22"), slot("2026-10-23"),
			}},
			wantErr: ErrInvalidInput,
		},
		{
			name:      "duplicate slot",
			requestID: 1,
			req:       &models.RescheduleRequest{UserID: 7, Slots: []models.ProposedSlotRequest{slot("2026-10-20"), slot("2026-10-20")}},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "past slot",
			requestID: 1,
			req:       &models.RescheduleRequest{UserID: 7, Slots: []models.ProposedSlotRequest{slot("2026-10-16")}},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "invalid period",
			requestID: 1,
			req:       &models.RescheduleRequest{UserID: 7, Slots: []models.ProposedSlotRequest{{Date: "2026-10-20", Period: "evening"}}},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "invalid date",
			requestID: 1,
			req:       &models.RescheduleRequest{UserID: 7, Slots: []models.ProposedSlotRequest{slot("20/10/2026")}},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "not found",
			requestID: 99,
			req:       &models.RescheduleRequest{UserID: 7, Slots: []models.ProposedSlotRequest{slot("2026-10-20")}},
			wantErr:   ErrRequestNotFound,
			wantTx:    true,
		},
		{
			name:      "other doctor",
			requestID: 1,
			req:       &models.RescheduleRequest{UserID: 8, Slots: []models.ProposedSlotRequest{slot("2026-10-20")}},
			wantErr:   ErrAccessDenied,
			wantTx:    true,
		},
		{
			name:      "confirmed request",
			requestID: 2,
			req:       &models.RescheduleRequest{UserID: 8, Slots: []models.ProposedSlotRequest{slot("2026-10-20")}},
			wantErr:   ErrInvalidTransition,
			wantTx:    true,
		},
		{
			name:      "update error",
			requestID: 1,
			req:       &models.RescheduleRequest{UserID: 7, Slots: []models.ProposedSlotRequest{slot("2026-10-20")}},
			updateErr: errors.New("db down"),
			wantErr:   ErrInternal,
			wantTx:    true,
		},
		{
			name:      "begin error",
			requestID: 1,
			req:       &models.RescheduleRequest{UserID: 7, Slots: []models.ProposedSlotRequest{slot("2026-10-20")}},
			txErr:     errors.New("txmanager: begin: connection refused"),
			wantErr:   ErrInternal,
			wantTx:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo()
			repo.updateErr = tt.updateErr
			tx := &fakeTxManager{err: tt.txErr}
			metrics := &fakeMetrics{}
			clock := &fixedTime{now: time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)}
			svc := NewService(repo, tx, metrics, clock, logger.NewNop())

			_, err := svc.Reschedule(context.Background(), tt.requestID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, metrics.statuses)
			if tt.wantTx {
				assert.Equal(t, 1, tx.calls)
			} else {
				assert.Zero(t, tx.calls)
			}
			assert.Empty(t, repo.requests[1].ProposedSlots)
		})
	}
}
