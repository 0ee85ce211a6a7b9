package choose_patient

import (
	"context"

	"github.com/mybakup/appointment-service/internal/service/wizard/models"
)

type WizardService interface {
	ChoosePatient(ctx context.Context, userID int64, wizardID string, req *models.ChoosePatientRequest) (*models.WizardView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
