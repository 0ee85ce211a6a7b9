package notifier

import (
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
)

// EventAppointmentRequested тип события о новой заявке
const EventAppointmentRequested = "appointment_request.created"

// Payload тело webhook уведомления
type Payload struct {
	Event         string    `json:"event"`
	RequestID     int64     `json:"requestId"`
	WizardID      string    `json:"wizardId"`
	DoctorID      string    `json:"doctorId"`
	DoctorName    string    `json:"doctorName"`
	PatientName   string    `json:"patientName"`
	ForSelf       bool      `json:"forSelf"`
	BeneficiaryID *string   `json:"beneficiaryId,omitempty"`
	Slots         []Slot    `json:"slots"`
	LocationType  string    `json:"locationType"`
	Address       *string   `json:"address,omitempty"`
	Complement    *string   `json:"complement,omitempty"`
	PathologyType string    `json:"pathologyType"`
	IsFirstVisit  bool      `json:"isFirstVisit"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Slot запрошенный слот в уведомлении
type Slot struct {
	Date   string `json:"date"`
	Period string `json:"period"`
}

func newPayload(req *domain.AppointmentRequest) Payload {
	p := Payload{
		Event:         EventAppointmentRequested,
		RequestID:     req.ID,
		WizardID:      req.WizardID,
		DoctorID:      req.DoctorID,
		DoctorName:    req.DoctorName,
		PatientName:   req.PatientName,
		ForSelf:       req.ForSelf,
		BeneficiaryID: req.BeneficiaryID,
		Slots:         make([]Slot, 0, len(req.Slots)),
		LocationType:  string(req.LocationType),
		Address:       req.Address,
		Complement:    req.Complement,
		PathologyType: string(req.PathologyType),
		IsFirstVisit:  req.IsFirstVisit,
		CreatedAt:     req.CreatedAt,
	}
	for _, s := range req.Slots {
		p.Slots = append(p.Slots, Slot{Date: s.Date.Format(domain.DateFormat), Period: string(s.Period)})
	}
	return p
}
