package requests

import (
	"context"
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
)

// RequestRepository интерфейс репозитория заявок на прием
type RequestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AppointmentRequest, error)
	GetByDoctorWithFilter(ctx context.Context, filter domain.DoctorRequestsFilter) ([]*domain.AppointmentRequest, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error
	UpdateProposal(ctx context.Context, id int64, status domain.RequestStatus, slots []domain.RequestedSlot) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики изменения статусов
type Metrics interface {
	RequestStatusChanged(status string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
