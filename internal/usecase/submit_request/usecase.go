package submit_request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
	appointmentRepo "github.com/mybakup/appointment-service/internal/infra/storage/appointment"
	wizardStore "github.com/mybakup/appointment-service/internal/infra/storage/wizard"
)

const (
	outcomeSuccess = "success"
	outcomeFailed  = "failed"

	// revertTimeout время на возврат сессии в неотправленное состояние
	revertTimeout = 5 * time.Second
)

// UseCase отправка мастера: фиксирует сессию, сохраняет заявку и уведомляет врача
type UseCase struct {
	store    SessionStore
	repo     RequestRepository
	notifier Notifier
	metrics  Metrics
	logger   Logger
}

// NewUseCase создает новый экземпляр usecase
func NewUseCase(
	store SessionStore,
	repo RequestRepository,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		store:    store,
		repo:     repo,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute отправляет мастер
// Сессия помечается отправленной до записи в БД, поэтому повторный submit
// в это время получает ErrAlreadySubmitted. Если запись не удалась,
// отметка снимается и клиент может повторить запрос.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitRequest: user=%d, wizard id=%s", req.UserID, req.WizardID)

	// 1. Фиксируем сессию и получаем подтверждение
	var confirmation *domain.Confirmation
	_, err := uc.store.Update(ctx, req.WizardID, func(w *domain.Wizard) error {
		if w.User.ID != req.UserID {
			return ErrAccessDenied
		}
		c, err := w.Submit()
		if err != nil {
			return err
		}
		w.UpdatedAt = time.Now()
		confirmation = c
		return nil
	})
	if err != nil {
		uc.observe(outcomeFailed)
		return nil, uc.mapStoreError(req.WizardID, err)
	}

	// 2. Сохраняем заявку
	created, err := uc.persist(ctx, domain.NewAppointmentRequest(confirmation))
	if err != nil {
		uc.logger.Error("SubmitRequest: failed to persist request for wizard id=%s: %v", req.WizardID, err)
		uc.revert(req.WizardID)
		uc.observe(outcomeFailed)
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	// 3. Уведомляем врача, ошибка уведомления не отменяет заявку
	if err := uc.notifier.NotifyRequestCreated(ctx, created); err != nil {
		uc.logger.Warn("SubmitRequest: failed to notify doctor id=%s about request id=%d: %v",
			created.DoctorID, created.ID, err)
	}

	uc.observe(outcomeSuccess)
	uc.logger.Info("SubmitRequest: created request id=%d for wizard id=%s, doctor id=%s",
		created.ID, created.WizardID, created.DoctorID)

	return newResponse(created), nil
}

// persist сохраняет заявку; заявка, уже сохраненная для этой сессии, считается успехом
func (uc *UseCase) persist(ctx context.Context, req *domain.AppointmentRequest) (*domain.AppointmentRequest, error) {
	created, err := uc.repo.Create(ctx, req)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, appointmentRepo.ErrDuplicateWizard) {
		return nil, err
	}

	uc.logger.Warn("SubmitRequest: request for wizard id=%s already exists", req.WizardID)
	return uc.repo.GetByWizardID(ctx, req.WizardID)
}

// revert снимает отметку об отправке с сессии
func (uc *UseCase) revert(wizardID string) {
	ctx, cancel := context.WithTimeout(context.Background(), revertTimeout)
	defer cancel()

	_, err := uc.store.Update(ctx, wizardID, func(w *domain.Wizard) error {
		return w.RevertSubmission()
	})
	if err != nil {
		uc.logger.Error("SubmitRequest: failed to revert submission for wizard id=%s: %v", wizardID, err)
	}
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.WizardSubmission(outcome)
	}
}

func (uc *UseCase) mapStoreError(wizardID string, err error) error {
	switch {
	case errors.Is(err, ErrAccessDenied):
		uc.logger.Warn("SubmitRequest: access denied to wizard id=%s", wizardID)
		return err
	case errors.Is(err, wizardStore.ErrWizardNotFound):
		return ErrWizardNotFound
	case errors.Is(err, wizardStore.ErrConflict):
		return ErrConflict
	case errors.Is(err, wizardStore.ErrRedis),
		errors.Is(err, wizardStore.ErrEncode),
		errors.Is(err, wizardStore.ErrDecode):
		uc.logger.Error("SubmitRequest: store error for wizard id=%s: %v", wizardID, err)
		return fmt.Errorf("%w: store error: %v", ErrInternal, err)
	default:
		// доменные ошибки (не тот шаг, неполные данные, уже отправлено)
		uc.logger.Warn("SubmitRequest: wizard id=%s rejected submit: %v", wizardID, err)
		return err
	}
}
