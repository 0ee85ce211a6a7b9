package locate_address

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
	wizardStore "github.com/mybakup/appointment-service/internal/infra/storage/wizard"
	wizardModels "github.com/mybakup/appointment-service/internal/service/wizard/models"
)

const (
	outcomeApplied = "applied"
	outcomeFailed  = "failed"
	outcomeStale   = "stale"

	// storeTimeout время на запись результата в сессию
	storeTimeout = 5 * time.Second
)

// UseCase асинхронное определение адреса по геопозиции
// Запрос возвращается сразу, результат применяется к сессии позже,
// только если пользователь за это время не изменил адрес или шаг
type UseCase struct {
	store   SessionStore
	geo     GeolocationProvider
	metrics Metrics
	timeout time.Duration
	logger  Logger

	wg sync.WaitGroup
}

// NewUseCase создает новый экземпляр usecase
func NewUseCase(
	store SessionStore,
	geo GeolocationProvider,
	metrics Metrics,
	timeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		store:   store,
		geo:     geo,
		metrics: metrics,
		timeout: timeout,
		logger:  logger,
	}
}

// Execute запускает определение адреса и возвращает сессию с lookupPending=true
func (uc *UseCase) Execute(ctx context.Context, userID int64, wizardID string) (*wizardModels.WizardView, error) {
	uc.logger.Info("LocateAddress: user=%d requested geolocation for wizard id=%s", userID, wizardID)

	var ticket domain.LookupTicket
	w, err := uc.store.Update(ctx, wizardID, func(w *domain.Wizard) error {
		if w.User.ID != userID {
			return ErrAccessDenied
		}
		t, err := w.BeginLocationLookup()
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, uc.mapStoreError(wizardID, err)
	}

	uc.wg.Add(1)
	go uc.resolve(userID, ticket)

	return wizardModels.FromDomainWizard(w), nil
}

// Wait ждет завершения запущенных определений адреса
func (uc *UseCase) Wait() {
	uc.wg.Wait()
}

// resolve получает позицию и применяет результат по билету
func (uc *UseCase) resolve(userID int64, ticket domain.LookupTicket) {
	defer uc.wg.Done()

	lookupCtx, cancel := context.WithTimeout(context.Background(), uc.timeout)
	pos, lookupErr := uc.geo.GetCurrentPosition(lookupCtx, userID)
	cancel()

	if lookupErr != nil {
		uc.logger.Warn("LocateAddress: geolocation failed for wizard id=%s: %v", ticket.WizardID, lookupErr)
	}

	storeCtx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	_, err := uc.store.Update(storeCtx, ticket.WizardID, func(w *domain.Wizard) error {
		var applied bool
		if lookupErr != nil {
			applied = w.FailLocationLookup(ticket)
		} else {
			applied = w.CompleteLocationLookup(ticket, pos.Address())
		}
		if !applied {
			return errStaleLookup
		}
		w.UpdatedAt = time.Now()
		return nil
	})

	switch {
	case err == nil && lookupErr != nil:
		uc.observe(outcomeFailed)
	case err == nil:
		uc.observe(outcomeApplied)
		uc.logger.Info("LocateAddress: address applied to wizard id=%s", ticket.WizardID)
	case errors.Is(err, errStaleLookup), errors.Is(err, wizardStore.ErrWizardNotFound):
		uc.observe(outcomeStale)
		uc.logger.Info("LocateAddress: discarded stale result for wizard id=%s (epoch=%d)", ticket.WizardID, ticket.Epoch)
	default:
		uc.observe(outcomeFailed)
		uc.logger.Error("LocateAddress: failed to store result for wizard id=%s: %v", ticket.WizardID, err)
	}
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.GeolocationLookup(outcome)
	}
}

func (uc *UseCase) mapStoreError(wizardID string, err error) error {
	switch {
	case errors.Is(err, ErrAccessDenied):
		uc.logger.Warn("LocateAddress: access denied to wizard id=%s", wizardID)
		return err
	case errors.Is(err, wizardStore.ErrWizardNotFound):
		return ErrWizardNotFound
	case errors.Is(err, wizardStore.ErrConflict):
		return ErrConflict
	case errors.Is(err, wizardStore.ErrRedis),
		errors.Is(err, wizardStore.ErrEncode),
		errors.Is(err, wizardStore.ErrDecode):
		uc.logger.Error("LocateAddress: store error for wizard id=%s: %v", wizardID, err)
		return fmt.Errorf("%w: store error: %v", ErrInternal, err)
	default:
		// доменные ошибки (не тот шаг, не домицилий)
		return err
	}
}
