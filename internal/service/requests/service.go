package requests

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mybakup/appointment-service/internal/domain"
	appointmentRepo "github.com/mybakup/appointment-service/internal/infra/storage/appointment"
	"github.com/mybakup/appointment-service/internal/service/requests/models"
)

// Service сервис заявок на прием для кабинета врача
type Service struct {
	repo         RequestRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(
	repo RequestRepository,
	txManager TransactionManager,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		repo:         repo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetDoctorRequests возвращает заявки врача, по умолчанию только активные
// Врач видит только свои заявки
func (s *Service) GetDoctorRequests(ctx context.Context, req *models.GetDoctorRequestsRequest) (*models.AppointmentRequestListResponse, error) {
	s.logger.Info("GetDoctorRequests: fetching requests for doctor=%s, user=%d, status=%v", req.DoctorID, req.UserID, req.Status)

	if strings.TrimSpace(req.DoctorID) == "" {
		return nil, fmt.Errorf("%w: doctor id is required", ErrInvalidInput)
	}
	if !isDoctor(req.UserID, req.DoctorID) {
		s.logger.Warn("GetDoctorRequests: access denied for user=%d to doctor=%s", req.UserID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	filter := domain.DoctorRequestsFilter{DoctorID: req.DoctorID}
	if req.Status != nil {
		status, err := domain.ParseRequestStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetDoctorRequests: invalid status=%s for doctor=%s", *req.Status, req.DoctorID)
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}

	list, err := s.repo.GetByDoctorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetDoctorRequests: repository error for doctor=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorRequests - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDoctorRequests: successfully fetched %d requests for doctor=%s", len(list), req.DoctorID)
	return models.FromDomainRequestList(list), nil
}

// UpdateStatus переводит заявку в новый статус
// Строка заявки блокируется на время проверки перехода (FOR UPDATE)
func (s *Service) UpdateStatus(ctx context.Context, requestID int64, req *models.UpdateStatusRequest) (*models.AppointmentRequestResponse, error) {
	s.logger.Info("UpdateStatus: updating request id=%d to status=%s by user=%d", requestID, req.Status, req.UserID)

	status, err := domain.ParseRequestStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for request id=%d", req.Status, requestID)
		return nil, ErrInvalidStatus
	}

	var updated *domain.AppointmentRequest
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		request, err := s.repo.GetByID(txCtx, requestID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrRequestNotFound) {
				s.logger.Warn("UpdateStatus: request id=%d not found", requestID)
				return ErrRequestNotFound
			}
			s.logger.Error("UpdateStatus: repository error for request id=%d: %v", requestID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if !isDoctor(req.UserID, request.DoctorID) {
			s.logger.Warn("UpdateStatus: access denied for user=%d to request id=%d", req.UserID, requestID)
			return ErrAccessDenied
		}

		if !request.CanTransitionTo(status) {
			s.logger.Warn("UpdateStatus: request id=%d cannot move from %s to %s", requestID, request.Status, status)
			return ErrInvalidTransition
		}

		if err := s.repo.UpdateStatus(txCtx, requestID, status); err != nil {
			if errors.Is(err, appointmentRepo.ErrRequestNotFound) {
				return ErrRequestNotFound
			}
			s.logger.Error("UpdateStatus: repository error for request id=%d: %v", requestID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		request.Status = status
		updated = request
		return nil
	})
	if err != nil {
		return nil, s.mapTxError("UpdateStatus", requestID, err)
	}

	if s.metrics != nil {
		s.metrics.RequestStatusChanged(string(status))
	}

	s.logger.Info("UpdateStatus: successfully updated request id=%d to status=%s", requestID, status)
	return models.FromDomainRequest(updated), nil
}

// Reschedule предлагает пациенту другие слоты вместо запрошенных
// Заявка переходит в статус waiting до ответа пациента, новое предложение заменяет прежнее
func (s *Service) Reschedule(ctx context.Context, requestID int64, req *models.RescheduleRequest) (*models.AppointmentRequestResponse, error) {
	s.logger.Info("Reschedule: proposing %d slots for request id=%d by user=%d", len(req.Slots), requestID, req.UserID)

	slots := make([]domain.RequestedSlot, 0, len(req.Slots))
	for _, in := range req.Slots {
		slot, err := domain.ParseRequestedSlot(in.Date + "/" + in.Period)
		if err != nil {
			s.logger.Warn("Reschedule: invalid slot date=%s, period=%s for request id=%d", in.Date, in.Period, requestID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		slots = append(slots, slot)
	}

	now := s.timeProvider.Now()
	if err := domain.ValidateProposedSlots(slots, now); err != nil {
		s.logger.Warn("Reschedule: invalid proposal for request id=%d: %v", requestID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var updated *domain.AppointmentRequest
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		request, err := s.repo.GetByID(txCtx, requestID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrRequestNotFound) {
				s.logger.Warn("Reschedule: request id=%d not found", requestID)
				return ErrRequestNotFound
			}
			s.logger.Error("Reschedule: repository error for request id=%d: %v", requestID, err)
			return fmt.Errorf("%w: Reschedule - repository error: %v", ErrInternal, err)
		}

		if !isDoctor(req.UserID, request.DoctorID) {
			s.logger.Warn("Reschedule: access denied for user=%d to request id=%d", req.UserID, requestID)
			return ErrAccessDenied
		}

		if err := request.Reschedule(slots, now); err != nil {
			s.logger.Warn("Reschedule: request id=%d cannot be rescheduled: %v", requestID, err)
			return ErrInvalidTransition
		}

		if err := s.repo.UpdateProposal(txCtx, requestID, request.Status, request.ProposedSlots); err != nil {
			if errors.Is(err, appointmentRepo.ErrRequestNotFound) {
				return ErrRequestNotFound
			}
			s.logger.Error("Reschedule: repository error for request id=%d: %v", requestID, err)
			return fmt.Errorf("%w: Reschedule - repository error: %v", ErrInternal, err)
		}

		updated = request
		return nil
	})
	if err != nil {
		return nil, s.mapTxError("Reschedule", requestID, err)
	}

	if s.metrics != nil {
		s.metrics.RequestStatusChanged(string(updated.Status))
	}

	s.logger.Info("Reschedule: request id=%d now waiting on %d proposed slots", requestID, len(updated.ProposedSlots))
	return models.FromDomainRequest(updated), nil
}

// mapTxError пропускает ошибки сервиса, ошибки транзакции (begin/commit) считаются внутренними
func (s *Service) mapTxError(op string, requestID int64, err error) error {
	switch {
	case errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInternal):
		return err
	default:
		s.logger.Error("%s: transaction error for request id=%d: %v", op, requestID, err)
		return fmt.Errorf("%w: %s - transaction error: %v", ErrInternal, op, err)
	}
}

// isDoctor сверяет пользователя из заголовка с идентификатором врача
func isDoctor(userID int64, doctorID string) bool {
	return strconv.FormatInt(userID, 10) == doctorID
}
