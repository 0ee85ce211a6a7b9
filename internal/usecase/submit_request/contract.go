package submit_request

import (
	"context"

	"github.com/mybakup/appointment-service/internal/domain"
)

// SessionStore хранилище сессий мастера записи
type SessionStore interface {
	Update(ctx context.Context, id string, fn func(w *domain.Wizard) error) (*domain.Wizard, error)
}

// RequestRepository интерфейс репозитория заявок на прием
type RequestRepository interface {
	Create(ctx context.Context, req *domain.AppointmentRequest) (*domain.AppointmentRequest, error)
	GetByWizardID(ctx context.Context, wizardID string) (*domain.AppointmentRequest, error)
}

// Notifier уведомляет врача о новой заявке
type Notifier interface {
	NotifyRequestCreated(ctx context.Context, req *domain.AppointmentRequest) error
}

// Metrics счетчики отправки заявок
type Metrics interface {
	WizardSubmission(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
