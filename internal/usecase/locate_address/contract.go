package locate_address

import (
	"context"

	"github.com/mybakup/appointment-service/internal/domain"
	"github.com/mybakup/appointment-service/internal/integrations/geolocation"
)

// SessionStore интерфейс хранилища сессий мастера
type SessionStore interface {
	Update(ctx context.Context, id string, fn func(w *domain.Wizard) error) (*domain.Wizard, error)
}

// GeolocationProvider интерфейс провайдера геопозиции пользователя
type GeolocationProvider interface {
	GetCurrentPosition(ctx context.Context, userID int64) (*geolocation.Position, error)
}

// Metrics интерфейс метрик геолокации
type Metrics interface {
	GeolocationLookup(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
