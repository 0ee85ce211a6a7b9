package submit_request

import (
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
)

// Request модель запроса на отправку мастера
type Request struct {
	UserID   int64  // ID пользователя из заголовка
	WizardID string // ID сессии мастера
}

// Response подтверждение созданной заявки
type Response struct {
	RequestID     int64
	WizardID      string
	Status        string
	PatientName   string
	ForSelf       bool
	BeneficiaryID *string
	DoctorID      string
	DoctorName    string
	Slots         []domain.RequestedSlot
	LocationType  string
	Address       *string
	Complement    *string
	PathologyType string
	IsFirstVisit  bool
	CreatedAt     time.Time
}

func newResponse(req *domain.AppointmentRequest) *Response {
	return &Response{
		RequestID:     req.ID,
		WizardID:      req.WizardID,
		Status:        string(req.Status),
		PatientName:   req.PatientName,
		ForSelf:       req.ForSelf,
		BeneficiaryID: req.BeneficiaryID,
		DoctorID:      req.DoctorID,
		DoctorName:    req.DoctorName,
		Slots:         req.Slots,
		LocationType:  string(req.LocationType),
		Address:       req.Address,
		Complement:    req.Complement,
		PathologyType: string(req.PathologyType),
		IsFirstVisit:  req.IsFirstVisit,
		CreatedAt:     req.CreatedAt,
	}
}
