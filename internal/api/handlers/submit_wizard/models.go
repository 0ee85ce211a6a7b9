package submit_wizard

import (
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
	submitRequest "github.com/mybakup/appointment-service/internal/usecase/submit_request"
)

// SlotResponse запрошенный слот
type SlotResponse struct {
	Date   string `json:"date"`
	Period string `json:"period"`
}

// LocationResponse место консультации
type LocationResponse struct {
	Type       string  `json:"type"`
	Address    *string `json:"address,omitempty"`
	Complement *string `json:"complement,omitempty"`
}

// DoctorResponse врач
type DoctorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ConfirmationResponse HTTP response model
type ConfirmationResponse struct {
	RequestID     int64            `json:"requestId"`
	WizardID      string           `json:"wizardId"`
	Status        string           `json:"status"`
	PatientName   string           `json:"patientName"`
	ForSelf       bool             `json:"forSelf"`
	BeneficiaryID *string          `json:"beneficiaryId,omitempty"`
	Doctor        DoctorResponse   `json:"doctor"`
	Slots         []SlotResponse   `json:"slots"`
	Location      LocationResponse `json:"location"`
	PathologyType string           `json:"pathologyType"`
	IsFirstVisit  bool             `json:"isFirstVisit"`
	CreatedAt     string           `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitRequest.Response) *ConfirmationResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			Date:   s.Date.Format(domain.DateFormat),
			Period: string(s.Period),
		})
	}

	return &ConfirmationResponse{
		RequestID:     resp.RequestID,
		WizardID:      resp.WizardID,
		Status:        resp.Status,
		PatientName:   resp.PatientName,
		ForSelf:       resp.ForSelf,
		BeneficiaryID: resp.BeneficiaryID,
		Doctor: DoctorResponse{
			ID:   resp.DoctorID,
			Name: resp.DoctorName,
		},
		Slots: slots,
		Location: LocationResponse{
			Type:       resp.LocationType,
			Address:    resp.Address,
			Complement: resp.Complement,
		},
		PathologyType: resp.PathologyType,
		IsFirstVisit:  resp.IsFirstVisit,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
