package wizard

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybakup/appointment-service/internal/domain"
	wizardStore "github.com/mybakup/appointment-service/internal/infra/storage/wizard"
	"github.com/mybakup/appointment-service/internal/integrations/profileservice"
	"github.com/mybakup/appointment-service/internal/service/wizard/models"
	"github.com/mybakup/appointment-service/pkg/logger"
	"github.com/mybakup/appointment-service/pkg/ptr"
)

const (
	testUserID  int64 = 42
	otherUserID int64 = 99
)

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type fakeProfiles struct {
	users         map[int64]*domain.AuthUser
	beneficiaries map[string]*domain.Beneficiary
	err           error
}

func (f *fakeProfiles) GetUser(_ context.Context, userID int64) (*domain.AuthUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, profileservice.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeProfiles) GetBeneficiary(_ context.Context, _ int64, id string) (*domain.Beneficiary, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.beneficiaries[id]
	if !ok {
		return nil, profileservice.ErrBeneficiaryNotFound
	}
	return b, nil
}

type transitionRecord struct {
	action, step, outcome string
}

type fakeMetrics struct {
	started     int
	transitions []transitionRecord
}

func (f *fakeMetrics) WizardStarted() {
	f.started++
}

func (f *fakeMetrics) WizardTransition(action, step, outcome string) {
	f.transitions = append(f.transitions, transitionRecord{action, step, outcome})
}

type testEnv struct {
	svc      *Service
	store    *wizardStore.Store
	profiles *fakeProfiles
	metrics  *fakeMetrics
	clock    *fixedTime
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := wizardStore.NewStore(client, "test:wizard:", time.Hour, 5)
	profiles := &fakeProfiles{
		users: map[int64]*domain.AuthUser{
			testUserID:  {ID: testUserID, FirstName: "John", LastName: "Doe", Email: "john@example.com"},
			otherUserID: {ID: otherUserID, FirstName: "Jane", LastName: "Roe"},
		},
		beneficiaries: map[string]*domain.Beneficiary{
			"ben-1": {ID: "ben-1", FirstName: "Marie", LastName: "Curie", Gender: domain.GenderFemale, Age: 66, Phone: "0601020304"},
		},
	}
	metrics := &fakeMetrics{}
	clock := &fixedTime{now: time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)}

	return &testEnv{
		svc:      NewService(store, profiles, profiles, metrics, clock, logger.NewNop()),
		store:    store,
		profiles: profiles,
		metrics:  metrics,
		clock:    clock,
	}
}

func (e *testEnv) start(t *testing.T) *models.WizardView {
	t.Helper()

	view, err := e.svc.Start(context.Background(), &models.StartWizardRequest{
		UserID: testUserID,
		Doctor: &models.DoctorInput{ID: "doc-7", Name: "Dr. Martin", Specialty: "Kinésithérapeute", ConsultationPrice: 45},
	})
	require.NoError(t, err)
	return view
}

func TestService_Start(t *testing.T) {
	env := newTestEnv(t)

	view := env.start(t)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, 0, view.Step)
	assert.Equal(t, "Disponibilités", view.StepTitle)
	assert.Equal(t, 5, view.TotalSteps)
	assert.Equal(t, 20, view.Progress)
	assert.False(t, view.CanContinue)
	assert.Equal(t, "Sélectionnez un créneau", view.ContinueLabel)
	assert.Len(t, view.Slots, 6)
	assert.Equal(t, "2026-10-17", view.Slots[0].Date)
	assert.Empty(t, view.SelectedSlots)
	assert.True(t, view.Patient.ForSelf)
	assert.Equal(t, "John Doe", view.Patient.Name)
	assert.Equal(t, "cabinet", view.Location.Type)
	assert.Equal(t, "ponctuelle", view.Details.PathologyType)
	assert.True(t, view.Details.IsFirstVisit)
	assert.Equal(t, "doc-7", view.Doctor.ID)
	assert.Equal(t, 1, env.metrics.started)

	got, err := env.store.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, testUserID, got.User.ID)
	assert.Equal(t, "john@example.com", got.User.Email)
}

func TestService_StartErrors(t *testing.T) {
	t.Run("missing doctor", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.Start(context.Background(), &models.StartWizardRequest{UserID: testUserID})
		assert.ErrorIs(t, err, domain.ErrMissingDoctor)

		_, err = env.svc.Start(context.Background(), &models.StartWizardRequest{
			UserID: testUserID,
			Doctor: &models.DoctorInput{ID: "  "},
		})
		assert.ErrorIs(t, err, domain.ErrMissingDoctor)
		assert.Equal(t, 0, env.metrics.started)
	})

	t.Run("oversized doctor reference", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.Start(context.Background(), &models.StartWizardRequest{
			UserID: testUserID,
			Doctor: &models.DoctorInput{ID: strings.Repeat("7", domain.MaxDoctorIDLength+1)},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDoctor)

		_, err = env.svc.Start(context.Background(), &models.StartWizardRequest{
			UserID: testUserID,
			Doctor: &models.DoctorInput{ID: "doc-7", Name: strings.Repeat("M", domain.MaxDoctorNameLength+1)},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDoctor)
		assert.Equal(t, 0, env.metrics.started)
	})

	t.Run("unknown user", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.Start(context.Background(), &models.StartWizardRequest{
			UserID: 7,
			Doctor: &models.DoctorInput{ID: "doc-7"},
		})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("profile service down", func(t *testing.T) {
		env := newTestEnv(t)
		env.profiles.err = profileservice.ErrServiceUnavailable

		_, err := env.svc.Start(context.Background(), &models.StartWizardRequest{
			UserID: testUserID,
			Doctor: &models.DoctorInput{ID: "doc-7"},
		})
		assert.ErrorIs(t, err, ErrProfileUnavailable)
	})
}

func TestService_StartKeepsDoctorIDAsSent(t *testing.T) {
	env := newTestEnv(t)

	view, err := env.svc.Start(context.Background(), &models.StartWizardRequest{
		UserID: testUserID,
		Doctor: &models.DoctorInput{ID: " doc-7 ", Name: " Dr. Martin "},
	})
	require.NoError(t, err)
	assert.Equal(t, " doc-7 ", view.Doctor.ID)
	assert.Equal(t, "Dr. Martin", view.Doctor.Name)

	got, err := env.store.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, " doc-7 ", got.Doctor.ID)
}

func TestService_TransitionsNotRecordedForUnloadedWizard(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	_, err := env.svc.Advance(ctx, testUserID, "missing")
	assert.ErrorIs(t, err, ErrWizardNotFound)
	_, err = env.svc.Advance(ctx, otherUserID, view.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = env.svc.Retreat(ctx, testUserID, "missing")
	assert.ErrorIs(t, err, ErrWizardNotFound)
	_, err = env.svc.Restart(ctx, otherUserID, view.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.Empty(t, env.metrics.transitions)
}

func TestService_GetAccess(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	got, err := env.svc.Get(ctx, testUserID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)

	_, err = env.svc.Get(ctx, otherUserID, view.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.Get(ctx, testUserID, "missing")
	assert.ErrorIs(t, err, ErrWizardNotFound)

	_, err = env.svc.Advance(ctx, otherUserID, view.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_ToggleAndAdvance(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	_, err := env.svc.Advance(ctx, testUserID, view.ID)
	assert.ErrorIs(t, err, domain.ErrStepGated)

	view, err = env.svc.ToggleSlot(ctx, testUserID, view.ID, &models.ToggleSlotRequest{DayID: "day-2", Period: "afternoon"})
	require.NoError(t, err)
	view, err = env.svc.ToggleSlot(ctx, testUserID, view.ID, &models.ToggleSlotRequest{DayID: "day-1", Period: "morning"})
	require.NoError(t, err)

	assert.True(t, view.CanContinue)
	assert.Equal(t, "Continuer (2 créneaux sélectionnés)", view.ContinueLabel)
	require.Len(t, view.SelectedSlots, 2)
	assert.Equal(t, "day-2", view.SelectedSlots[0].DayID)
	assert.Equal(t, "day-1", view.SelectedSlots[1].DayID)

	view, err = env.svc.ToggleSlot(ctx, testUserID, view.ID, &models.ToggleSlotRequest{DayID: "day-2", Period: "afternoon"})
	require.NoError(t, err)
	assert.Equal(t, "Continuer (1 créneau sélectionné)", view.ContinueLabel)

	view, err = env.svc.Advance(ctx, testUserID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Step)
	assert.Equal(t, "Suivant", view.ContinueLabel)

	assert.Equal(t, []transitionRecord{
		{"advance", "0", "blocked"},
		{"advance", "0", "ok"},
	}, env.metrics.transitions)
}

func TestService_ToggleSlotErrors(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	_, err := env.svc.ToggleSlot(ctx, testUserID, view.ID, &models.ToggleSlotRequest{DayID: "day-1", Period: "evening"})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	_, err = env.svc.ToggleSlot(ctx, testUserID, view.ID, &models.ToggleSlotRequest{DayID: "day-9", Period: "morning"})
	assert.ErrorIs(t, err, domain.ErrUnknownSlot)
}

func TestService_RetreatExitsOnFirstStep(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	resp, err := env.svc.Retreat(ctx, testUserID, view.ID)
	require.NoError(t, err)
	assert.True(t, resp.Exited)
	assert.Nil(t, resp.Wizard)

	_, err = env.svc.Get(ctx, testUserID, view.ID)
	assert.ErrorIs(t, err, ErrWizardNotFound)
}

func TestService_RetreatKeepsSelection(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	_, err := env.svc.ToggleSlot(ctx, testUserID, view.ID, &models.ToggleSlotRequest{DayID: "day-3", Period: "morning"})
	require.NoError(t, err)
	_, err = env.svc.Advance(ctx, testUserID, view.ID)
	require.NoError(t, err)

	resp, err := env.svc.Retreat(ctx, testUserID, view.ID)
	require.NoError(t, err)
	assert.False(t, resp.Exited)
	require.NotNil(t, resp.Wizard)
	assert.Equal(t, 0, resp.Wizard.Step)
	assert.Len(t, resp.Wizard.SelectedSlots, 1)
}

func TestService_FullFlowWithBeneficiaryAndDomicile(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()
	id := view.ID

	_, err := env.svc.ToggleSlot(ctx, testUserID, id, &models.ToggleSlotRequest{DayID: "day-1", Period: "afternoon"})
	require.NoError(t, err)
	_, err = env.svc.Advance(ctx, testUserID, id)
	require.NoError(t, err)

	// для другого человека: открывается выбор бенефициара, шаг закрыт
	view, err = env.svc.ChoosePatient(ctx, testUserID, id, &models.ChoosePatientRequest{ForSelf: false})
	require.NoError(t, err)
	assert.True(t, view.Patient.PickerRequired)
	assert.False(t, view.CanContinue)

	view, err = env.svc.CancelBeneficiaryPicker(ctx, testUserID, id)
	require.NoError(t, err)
	assert.False(t, view.Patient.PickerRequired)
	assert.False(t, view.CanContinue)

	view, err = env.svc.SelectBeneficiary(ctx, testUserID, id, &models.SelectBeneficiaryRequest{BeneficiaryID: ptr.Ptr("ben-1")})
	require.NoError(t, err)
	assert.True(t, view.CanContinue)
	assert.Equal(t, "Marie Curie", view.Patient.Name)
	require.NotNil(t, view.Patient.Beneficiary)
	assert.Equal(t, "ben-1", view.Patient.Beneficiary.ID)

	_, err = env.svc.Advance(ctx, testUserID, id)
	require.NoError(t, err)

	view, err = env.svc.UpdateLocation(ctx, testUserID, id, &models.UpdateLocationRequest{Type: ptr.Ptr("domicile")})
	require.NoError(t, err)
	assert.False(t, view.CanContinue)

	view, err = env.svc.UpdateLocation(ctx, testUserID, id, &models.UpdateLocationRequest{
		Address:    ptr.Ptr("12 rue des Lilas, Paris"),
		Complement: ptr.Ptr("Code 1234, 3e étage"),
	})
	require.NoError(t, err)
	assert.True(t, view.CanContinue)
	assert.Equal(t, "Code 1234, 3e étage", view.Location.Complement)

	_, err = env.svc.Advance(ctx, testUserID, id)
	require.NoError(t, err)

	view, err = env.svc.UpdateDetails(ctx, testUserID, id, &models.UpdateDetailsRequest{PathologyType: "recurrente", IsFirstVisit: false})
	require.NoError(t, err)
	assert.Equal(t, "recurrente", view.Details.PathologyType)
	assert.False(t, view.Details.IsFirstVisit)

	view, err = env.svc.Advance(ctx, testUserID, id)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Step)
	assert.Equal(t, 100, view.Progress)
	assert.Equal(t, "Confirmer ma demande", view.ContinueLabel)
	assert.True(t, view.CanContinue)

	_, err = env.svc.Advance(ctx, testUserID, id)
	assert.ErrorIs(t, err, domain.ErrLastStep)
}

func TestService_SelectBeneficiaryInline(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	_, err := env.svc.ToggleSlot(ctx, testUserID, view.ID, &models.ToggleSlotRequest{DayID: "day-1", Period: "morning"})
	require.NoError(t, err)
	_, err = env.svc.Advance(ctx, testUserID, view.ID)
	require.NoError(t, err)

	view, err = env.svc.SelectBeneficiary(ctx, testUserID, view.ID, &models.SelectBeneficiaryRequest{
		Beneficiary: &models.BeneficiaryInput{
			FirstName: "Paul", LastName: "Doe", Gender: "male", Age: 8, Phone: "0611223344", Relationship: "Fils",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, view.Patient.Beneficiary)
	assert.NotEmpty(t, view.Patient.Beneficiary.ID)
	assert.Equal(t, "Paul Doe", view.Patient.Name)
	assert.False(t, view.Patient.ForSelf)

	_, err = env.svc.SelectBeneficiary(ctx, testUserID, view.ID, &models.SelectBeneficiaryRequest{
		Beneficiary: &models.BeneficiaryInput{FirstName: "Paul", LastName: "Doe", Gender: "male", Age: 500, Phone: "06"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBeneficiary)

	_, err = env.svc.SelectBeneficiary(ctx, testUserID, view.ID, &models.SelectBeneficiaryRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.SelectBeneficiary(ctx, testUserID, view.ID, &models.SelectBeneficiaryRequest{BeneficiaryID: ptr.Ptr("ben-404")})
	assert.ErrorIs(t, err, ErrBeneficiaryNotFound)

	// смена бенефициара: ForSelf=false, выбор снова открыт, бенефициар сохранен
	view, err = env.svc.OpenBeneficiaryPicker(ctx, testUserID, view.ID)
	require.NoError(t, err)
	assert.True(t, view.Patient.PickerRequired)
	assert.NotNil(t, view.Patient.Beneficiary)
}

func TestService_WrongStepActions(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	_, err := env.svc.ChoosePatient(ctx, testUserID, view.ID, &models.ChoosePatientRequest{ForSelf: true})
	assert.ErrorIs(t, err, domain.ErrWrongStep)

	_, err = env.svc.UpdateLocation(ctx, testUserID, view.ID, &models.UpdateLocationRequest{Type: ptr.Ptr("domicile")})
	assert.ErrorIs(t, err, domain.ErrWrongStep)

	_, err = env.svc.UpdateLocation(ctx, testUserID, view.ID, &models.UpdateLocationRequest{Type: ptr.Ptr("mars")})
	assert.ErrorIs(t, err, domain.ErrInvalidLocationType)

	_, err = env.svc.UpdateLocation(ctx, testUserID, view.ID, &models.UpdateLocationRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.UpdateDetails(ctx, testUserID, view.ID, &models.UpdateDetailsRequest{PathologyType: "chronique"})
	assert.ErrorIs(t, err, domain.ErrInvalidPathology)
}

func TestService_Restart(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	_, err := env.svc.ToggleSlot(ctx, testUserID, view.ID, &models.ToggleSlotRequest{DayID: "day-1", Period: "morning"})
	require.NoError(t, err)
	_, err = env.svc.Advance(ctx, testUserID, view.ID)
	require.NoError(t, err)

	env.clock.now = env.clock.now.Add(24 * time.Hour)

	view, err = env.svc.Restart(ctx, testUserID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Step)
	assert.Empty(t, view.SelectedSlots)
	assert.Equal(t, "2026-10-18", view.Slots[0].Date)
}

func TestService_Discard(t *testing.T) {
	env := newTestEnv(t)
	view := env.start(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.svc.Discard(ctx, otherUserID, view.ID), ErrAccessDenied)
	require.NoError(t, env.svc.Discard(ctx, testUserID, view.ID))
	assert.ErrorIs(t, env.svc.Discard(ctx, testUserID, view.ID), ErrWizardNotFound)
}
