package update_request_status

import (
	"context"

	"github.com/mybakup/appointment-service/internal/service/requests/models"
)

type RequestService interface {
	UpdateStatus(ctx context.Context, requestID int64, req *models.UpdateStatusRequest) (*models.AppointmentRequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
