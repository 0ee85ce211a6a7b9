package reschedule_request

import (
	"context"

	"github.com/mybakup/appointment-service/internal/service/requests/models"
)

type RequestService interface {
	Reschedule(ctx context.Context, requestID int64, req *models.RescheduleRequest) (*models.AppointmentRequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
