package select_beneficiary

import (
	"context"

	"github.com/mybakup/appointment-service/internal/service/wizard/models"
)

type WizardService interface {
	SelectBeneficiary(ctx context.Context, userID int64, wizardID string, req *models.SelectBeneficiaryRequest) (*models.WizardView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
