package wizard

import (
	"context"
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
)

// SessionStore интерфейс хранилища сессий мастера
type SessionStore interface {
	Create(ctx context.Context, w *domain.Wizard) error
	Get(ctx context.Context, id string) (*domain.Wizard, error)
	Update(ctx context.Context, id string, fn func(w *domain.Wizard) error) (*domain.Wizard, error)
	Delete(ctx context.Context, id string) error
}

// UserProvider провайдер аутентифицированного пользователя
type UserProvider interface {
	GetUser(ctx context.Context, userID int64) (*domain.AuthUser, error)
}

// BeneficiaryProvider провайдер бенефициаров пользователя
type BeneficiaryProvider interface {
	GetBeneficiary(ctx context.Context, userID int64, beneficiaryID string) (*domain.Beneficiary, error)
}

// Metrics интерфейс метрик мастера
type Metrics interface {
	WizardStarted()
	WizardTransition(action, step, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
