package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mybakup/appointment-service/internal/domain"
	wizardStore "github.com/mybakup/appointment-service/internal/infra/storage/wizard"
	"github.com/mybakup/appointment-service/internal/integrations/profileservice"
	"github.com/mybakup/appointment-service/internal/service/wizard/models"
)

const (
	outcomeOK      = "ok"
	outcomeBlocked = "blocked"
	outcomeExited  = "exited"
	outcomeError   = "error"
)

// Service сервис сессий мастера записи
type Service struct {
	store         SessionStore
	users         UserProvider
	beneficiaries BeneficiaryProvider
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса мастера
func NewService(
	store SessionStore,
	users UserProvider,
	beneficiaries BeneficiaryProvider,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		store:         store,
		users:         users,
		beneficiaries: beneficiaries,
		metrics:       metrics,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// Start запускает мастер записи для врача
// Пользователь фиксируется в сессии в момент старта
func (s *Service) Start(ctx context.Context, req *models.StartWizardRequest) (*models.WizardView, error) {
	if req.Doctor == nil || strings.TrimSpace(req.Doctor.ID) == "" {
		s.logger.Warn("Start: missing doctor data for user=%d", req.UserID)
		return nil, domain.ErrMissingDoctor
	}

	s.logger.Info("Start: starting wizard for user=%d, doctor=%s", req.UserID, req.Doctor.ID)

	user, err := s.users.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, s.mapProfileError("Start", err)
	}

	doctor := domain.Doctor{
		ID:                req.Doctor.ID,
		Name:              strings.TrimSpace(req.Doctor.Name),
		Specialty:         strings.TrimSpace(req.Doctor.Specialty),
		ConsultationPrice: req.Doctor.ConsultationPrice,
	}

	w, err := domain.NewWizard(uuid.NewString(), *user, doctor, s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("Start: cannot start wizard for user=%d: %v", req.UserID, err)
		return nil, err
	}

	if err := s.store.Create(ctx, w); err != nil {
		s.logger.Error("Start: failed to store wizard for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: Start - store error: %v", ErrInternal, err)
	}

	if s.metrics != nil {
		s.metrics.WizardStarted()
	}
	s.logger.Info("Start: wizard id=%s started for user=%d", w.ID, req.UserID)
	return models.FromDomainWizard(w), nil
}

// Get возвращает текущее состояние мастера
func (s *Service) Get(ctx context.Context, userID int64, wizardID string) (*models.WizardView, error) {
	w, err := s.store.Get(ctx, wizardID)
	if err != nil {
		return nil, s.mapStoreError("Get", wizardID, err)
	}
	if w.User.ID != userID {
		s.logger.Warn("Get: access denied for user=%d to wizard id=%s", userID, wizardID)
		return nil, ErrAccessDenied
	}
	return models.FromDomainWizard(w), nil
}

// ToggleSlot выбирает слот или снимает выбор
func (s *Service) ToggleSlot(ctx context.Context, userID int64, wizardID string, req *models.ToggleSlotRequest) (*models.WizardView, error) {
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		return nil, err
	}

	w, err := s.mutate(ctx, "ToggleSlot", userID, wizardID, func(w *domain.Wizard) error {
		_, err := w.ToggleSlot(req.DayID, period)
		return err
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainWizard(w), nil
}

// Advance переходит на следующий шаг, если текущий шаг заполнен
func (s *Service) Advance(ctx context.Context, userID int64, wizardID string) (*models.WizardView, error) {
	var from domain.Step
	var loaded bool
	w, err := s.mutate(ctx, "Advance", userID, wizardID, func(w *domain.Wizard) error {
		from, loaded = w.Step, true
		return w.Advance()
	})
	if err != nil {
		outcome := outcomeError
		if errors.Is(err, domain.ErrStepGated) {
			outcome = outcomeBlocked
		}
		if loaded {
			s.transition("advance", from, outcome)
		}
		return nil, err
	}

	s.transition("advance", from, outcomeOK)
	return models.FromDomainWizard(w), nil
}

// Retreat возвращается на предыдущий шаг
// На первом шаге пользователь покидает мастер: сессия удаляется
func (s *Service) Retreat(ctx context.Context, userID int64, wizardID string) (*models.RetreatResponse, error) {
	var from domain.Step
	var loaded, exited bool
	w, err := s.mutate(ctx, "Retreat", userID, wizardID, func(w *domain.Wizard) error {
		from, loaded = w.Step, true
		var err error
		exited, err = w.Retreat()
		return err
	})
	if err != nil {
		if loaded {
			s.transition("retreat", from, outcomeError)
		}
		return nil, err
	}

	if exited {
		if err := s.store.Delete(ctx, wizardID); err != nil {
			s.logger.Error("Retreat: failed to delete wizard id=%s: %v", wizardID, err)
			return nil, fmt.Errorf("%w: Retreat - store error: %v", ErrInternal, err)
		}
		s.transition("retreat", from, outcomeExited)
		s.logger.Info("Retreat: user=%d left wizard id=%s", userID, wizardID)
		return &models.RetreatResponse{Exited: true}, nil
	}

	s.transition("retreat", from, outcomeOK)
	return &models.RetreatResponse{Wizard: models.FromDomainWizard(w)}, nil
}

// Restart начинает новую запись с первого шага со свежими слотами
func (s *Service) Restart(ctx context.Context, userID int64, wizardID string) (*models.WizardView, error) {
	var from domain.Step
	var loaded bool
	now := s.timeProvider.Now()
	w, err := s.mutate(ctx, "Restart", userID, wizardID, func(w *domain.Wizard) error {
		from, loaded = w.Step, true
		return w.Restart(now)
	})
	if err != nil {
		if loaded {
			s.transition("restart", from, outcomeError)
		}
		return nil, err
	}

	s.transition("restart", from, outcomeOK)
	return models.FromDomainWizard(w), nil
}

// ChoosePatient выбирает, для кого запись: для себя или для бенефициара
// Выбор бенефициара без выбранного бенефициара открывает выбор из списка
func (s *Service) ChoosePatient(ctx context.Context, userID int64, wizardID string, req *models.ChoosePatientRequest) (*models.WizardView, error) {
	w, err := s.mutate(ctx, "ChoosePatient", userID, wizardID, func(w *domain.Wizard) error {
		if req.ForSelf {
			return w.ChooseForSelf()
		}
		_, err := w.ChooseForBeneficiary()
		return err
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainWizard(w), nil
}

// SelectBeneficiary выбирает бенефициара из профиля пользователя или создает нового
func (s *Service) SelectBeneficiary(ctx context.Context, userID int64, wizardID string, req *models.SelectBeneficiaryRequest) (*models.WizardView, error) {
	beneficiary, err := s.resolveBeneficiary(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	w, err := s.mutate(ctx, "SelectBeneficiary", userID, wizardID, func(w *domain.Wizard) error {
		return w.SelectBeneficiary(beneficiary)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("SelectBeneficiary: wizard id=%s beneficiary=%s", wizardID, beneficiary.ID)
	return models.FromDomainWizard(w), nil
}

// OpenBeneficiaryPicker открывает выбор бенефициара ("сменить бенефициара")
func (s *Service) OpenBeneficiaryPicker(ctx context.Context, userID int64, wizardID string) (*models.WizardView, error) {
	w, err := s.mutate(ctx, "OpenBeneficiaryPicker", userID, wizardID, func(w *domain.Wizard) error {
		return w.OpenBeneficiaryPicker()
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainWizard(w), nil
}

// CancelBeneficiaryPicker закрывает выбор бенефициара без выбора
func (s *Service) CancelBeneficiaryPicker(ctx context.Context, userID int64, wizardID string) (*models.WizardView, error) {
	w, err := s.mutate(ctx, "CancelBeneficiaryPicker", userID, wizardID, func(w *domain.Wizard) error {
		return w.CancelBeneficiaryPicker()
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainWizard(w), nil
}

// UpdateLocation изменяет место консультации
// Применяются только переданные поля, в порядке: тип, адрес, дополнение
func (s *Service) UpdateLocation(ctx context.Context, userID int64, wizardID string, req *models.UpdateLocationRequest) (*models.WizardView, error) {
	if req.Type == nil && req.Address == nil && req.Complement == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	var locationType domain.LocationType
	if req.Type != nil {
		t, err := domain.ParseLocationType(*req.Type)
		if err != nil {
			return nil, err
		}
		locationType = t
	}

	w, err := s.mutate(ctx, "UpdateLocation", userID, wizardID, func(w *domain.Wizard) error {
		if req.Type != nil {
			if err := w.SetLocationType(locationType); err != nil {
				return err
			}
		}
		if req.Address != nil {
			if err := w.SetAddress(*req.Address); err != nil {
				return err
			}
		}
		if req.Complement != nil {
			if err := w.SetComplement(*req.Complement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainWizard(w), nil
}

// UpdateDetails сохраняет детали консультации
func (s *Service) UpdateDetails(ctx context.Context, userID int64, wizardID string, req *models.UpdateDetailsRequest) (*models.WizardView, error) {
	pathology, err := domain.ParsePathologyType(req.PathologyType)
	if err != nil {
		return nil, err
	}

	w, err := s.mutate(ctx, "UpdateDetails", userID, wizardID, func(w *domain.Wizard) error {
		return w.SetDetails(pathology, req.IsFirstVisit)
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainWizard(w), nil
}

// Discard удаляет сессию мастера
func (s *Service) Discard(ctx context.Context, userID int64, wizardID string) error {
	w, err := s.store.Get(ctx, wizardID)
	if err != nil {
		return s.mapStoreError("Discard", wizardID, err)
	}
	if w.User.ID != userID {
		s.logger.Warn("Discard: access denied for user=%d to wizard id=%s", userID, wizardID)
		return ErrAccessDenied
	}

	if err := s.store.Delete(ctx, wizardID); err != nil {
		return s.mapStoreError("Discard", wizardID, err)
	}

	s.logger.Info("Discard: wizard id=%s discarded by user=%d", wizardID, userID)
	return nil
}

// Вспомогательные методы

// mutate применяет fn к сессии пользователя в оптимистичной транзакции хранилища
func (s *Service) mutate(ctx context.Context, op string, userID int64, wizardID string, fn func(w *domain.Wizard) error) (*domain.Wizard, error) {
	w, err := s.store.Update(ctx, wizardID, func(w *domain.Wizard) error {
		if w.User.ID != userID {
			return ErrAccessDenied
		}
		if err := fn(w); err != nil {
			return err
		}
		w.UpdatedAt = s.timeProvider.Now()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			s.logger.Warn("%s: access denied for user=%d to wizard id=%s", op, userID, wizardID)
			return nil, err
		}
		return nil, s.mapStoreError(op, wizardID, err)
	}
	return w, nil
}

// mapStoreError конвертирует ошибки хранилища, доменные ошибки возвращаются как есть
func (s *Service) mapStoreError(op, wizardID string, err error) error {
	switch {
	case errors.Is(err, wizardStore.ErrWizardNotFound):
		s.logger.Warn("%s: wizard id=%s not found", op, wizardID)
		return ErrWizardNotFound
	case errors.Is(err, wizardStore.ErrConflict):
		s.logger.Warn("%s: concurrent update conflict on wizard id=%s", op, wizardID)
		return ErrConflict
	case errors.Is(err, wizardStore.ErrRedis),
		errors.Is(err, wizardStore.ErrEncode),
		errors.Is(err, wizardStore.ErrDecode):
		s.logger.Error("%s: store error for wizard id=%s: %v", op, wizardID, err)
		return fmt.Errorf("%w: %s - store error: %v", ErrInternal, op, err)
	default:
		s.logger.Info("%s: wizard id=%s rejected action: %v", op, wizardID, err)
		return err
	}
}

func (s *Service) mapProfileError(op string, err error) error {
	switch {
	case errors.Is(err, profileservice.ErrUserNotFound):
		s.logger.Warn("%s: user not found in profile service", op)
		return ErrUserNotFound
	case errors.Is(err, profileservice.ErrBeneficiaryNotFound):
		s.logger.Warn("%s: beneficiary not found in profile service", op)
		return ErrBeneficiaryNotFound
	default:
		s.logger.Error("%s: profile service error: %v", op, err)
		return fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
}

// resolveBeneficiary получает бенефициара по ID из профиля или валидирует введенного вручную
func (s *Service) resolveBeneficiary(ctx context.Context, userID int64, req *models.SelectBeneficiaryRequest) (*domain.Beneficiary, error) {
	switch {
	case req.BeneficiaryID != nil && req.Beneficiary != nil:
		return nil, fmt.Errorf("%w: either beneficiaryId or beneficiary must be set, not both", ErrInvalidInput)
	case req.BeneficiaryID != nil:
		id := strings.TrimSpace(*req.BeneficiaryID)
		if id == "" {
			return nil, fmt.Errorf("%w: empty beneficiaryId", ErrInvalidInput)
		}
		b, err := s.beneficiaries.GetBeneficiary(ctx, userID, id)
		if err != nil {
			return nil, s.mapProfileError("SelectBeneficiary", err)
		}
		return b, nil
	case req.Beneficiary != nil:
		in := req.Beneficiary
		return domain.NewBeneficiary(
			uuid.NewString(),
			in.FirstName,
			in.LastName,
			domain.Gender(in.Gender),
			in.Age,
			in.Phone,
			in.Relationship,
		)
	default:
		return nil, fmt.Errorf("%w: beneficiaryId or beneficiary is required", ErrInvalidInput)
	}
}

func (s *Service) transition(action string, from domain.Step, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.WizardTransition(action, strconv.Itoa(int(from)), outcome)
}
