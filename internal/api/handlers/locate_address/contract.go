package locate_address

import (
	"context"

	"github.com/mybakup/appointment-service/internal/service/wizard/models"
)

type LocateAddressUseCase interface {
	Execute(ctx context.Context, userID int64, wizardID string) (*models.WizardView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
