package discard_wizard

import "context"

type WizardService interface {
	Discard(ctx context.Context, userID int64, wizardID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
