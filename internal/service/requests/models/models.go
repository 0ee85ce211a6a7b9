package models

import (
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
)

// Request модели

// GetDoctorRequestsRequest запрос на получение заявок врача
type GetDoctorRequestsRequest struct {
	UserID   int64   `json:"-"`
	DoctorID string  `json:"doctorId"`
	Status   *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// UpdateStatusRequest запрос на изменение статуса заявки
type UpdateStatusRequest struct {
	UserID int64  `json:"-"`
	Status string `json:"status"`
}

// ProposedSlotRequest слот, предложенный врачом
type ProposedSlotRequest struct {
	Date   string `json:"date"`   // "2026-10-20"
	Period string `json:"period"` // "morning" | "afternoon"
}

// RescheduleRequest запрос на перенос: врач предлагает до 3 других слотов
type RescheduleRequest struct {
	UserID int64                 `json:"-"`
	Slots  []ProposedSlotRequest `json:"slots"`
}

// Response модели

// SlotResponse запрошенный слот
type SlotResponse struct {
	Date   string `json:"date"`   // "2026-10-17"
	Period string `json:"period"` // "morning" | "afternoon"
}

// AppointmentRequestResponse заявка на прием
type AppointmentRequestResponse struct {
	ID            int64          `json:"id"`
	WizardID      string         `json:"wizardId"`
	UserID        int64          `json:"userId"`
	DoctorID      string         `json:"doctorId"`
	DoctorName    string         `json:"doctorName"`
	PatientName   string         `json:"patientName"`
	ForSelf       bool           `json:"forSelf"`
	BeneficiaryID *string        `json:"beneficiaryId,omitempty"`
	Slots         []SlotResponse `json:"slots"`
	ProposedSlots []SlotResponse `json:"proposedSlots"`
	LocationType  string         `json:"locationType"`
	Address       *string        `json:"address,omitempty"`
	Complement    *string        `json:"complement,omitempty"`
	PathologyType string         `json:"pathologyType"`
	IsFirstVisit  bool           `json:"isFirstVisit"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// AppointmentRequestListResponse список заявок
type AppointmentRequestListResponse struct {
	Requests []AppointmentRequestResponse `json:"requests"`
	Total    int                          `json:"total"`
}

// FromDomainSlots конвертирует запрошенные слоты
func FromDomainSlots(slots []domain.RequestedSlot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{
			Date:   s.Date.Format(domain.DateFormat),
			Period: string(s.Period),
		})
	}
	return out
}

// FromDomainRequest конвертирует domain заявку в response
func FromDomainRequest(r *domain.AppointmentRequest) *AppointmentRequestResponse {
	return &AppointmentRequestResponse{
		ID:            r.ID,
		WizardID:      r.WizardID,
		UserID:        r.UserID,
		DoctorID:      r.DoctorID,
		DoctorName:    r.DoctorName,
		PatientName:   r.PatientName,
		ForSelf:       r.ForSelf,
		BeneficiaryID: r.BeneficiaryID,
		Slots:         FromDomainSlots(r.Slots),
		ProposedSlots: FromDomainSlots(r.ProposedSlots),
		LocationType:  string(r.LocationType),
		Address:       r.Address,
		Complement:    r.Complement,
		PathologyType: string(r.PathologyType),
		IsFirstVisit:  r.IsFirstVisit,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromDomainRequestList конвертирует список заявок
func FromDomainRequestList(list []*domain.AppointmentRequest) *AppointmentRequestListResponse {
	resp := &AppointmentRequestListResponse{
		Requests: make([]AppointmentRequestResponse, 0, len(list)),
		Total:    len(list),
	}
	for _, r := range list {
		resp.Requests = append(resp.Requests, *FromDomainRequest(r))
	}
	return resp
}
