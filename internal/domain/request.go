package domain

import (
	"fmt"
	"time"

	"github.com/mybakup/appointment-service/pkg/ptr"
)

// RequestStatus represents the status of an appointment request
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestWaiting    RequestStatus = "waiting"
	RequestConfirmed  RequestStatus = "confirmed"
	RequestRejected   RequestStatus = "rejected"
	RequestInProgress RequestStatus = "in_progress"
)

// AppointmentRequest is a submitted wizard, as seen by the practitioner
type AppointmentRequest struct {
	ID            int64
	WizardID      string
	UserID        int64
	DoctorID      string
	DoctorName    string
	PatientName   string
	ForSelf       bool
	BeneficiaryID *string
	Slots         []RequestedSlot
	ProposedSlots []RequestedSlot // alternatives proposed by the practitioner
	LocationType  LocationType
	Address       *string
	Complement    *string
	PathologyType PathologyType
	IsFirstVisit  bool
	Status        RequestStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAppointmentRequest builds a pending request from a confirmation
func NewAppointmentRequest(c *Confirmation) *AppointmentRequest {
	r := &AppointmentRequest{
		WizardID:      c.WizardID,
		UserID:        c.UserID,
		DoctorID:      c.Doctor.ID,
		DoctorName:    c.Doctor.Name,
		PatientName:   c.PatientName,
		ForSelf:       c.ForSelf,
		BeneficiaryID: c.BeneficiaryID,
		Slots:         c.Slots,
		LocationType:  c.Location.Type,
		PathologyType: c.PathologyType,
		IsFirstVisit:  c.IsFirstVisit,
		Status:        RequestPending,
	}
	if c.Location.Type == LocationDomicile {
		r.Address = ptr.Ptr(c.Location.Address)
		r.Complement = ptr.NilIfZero(c.Location.Complement)
	}
	return r
}

// ParseRequestStatus validates a status coming from the outside
func ParseRequestStatus(s string) (RequestStatus, error) {
	status := RequestStatus(s)
	switch status {
	case RequestPending, RequestWaiting, RequestConfirmed, RequestRejected, RequestInProgress:
		return status, nil
	}
	return "", ErrInvalidStatus
}

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:   {RequestWaiting, RequestConfirmed, RequestRejected},
	RequestWaiting:   {RequestConfirmed, RequestRejected},
	RequestConfirmed: {RequestInProgress, RequestRejected},
}

// CanTransitionTo returns true if the practitioner may move the request to next
func (r *AppointmentRequest) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[r.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateProposedSlots checks a reschedule proposal: 1..MaxProposedSlots distinct slots,
// none of them before the day of now
func ValidateProposedSlots(slots []RequestedSlot, now time.Time) error {
	if len(slots) == 0 || len(slots) > MaxProposedSlots {
		return fmt.Errorf("%w: expected 1..%d slots, got %d", ErrInvalidProposal, MaxProposedSlots, len(slots))
	}
	today := now.Format(DateFormat)
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		key := slot.String()
		if slot.Date.Format(DateFormat) < today {
			return fmt.Errorf("%w: slot %s is in the past", ErrInvalidProposal, key)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate slot %s", ErrInvalidProposal, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Reschedule replaces the proposed alternatives and puts the request on hold
// until the patient answers. Allowed while the request is pending or already waiting.
func (r *AppointmentRequest) Reschedule(slots []RequestedSlot, now time.Time) error {
	if err := ValidateProposedSlots(slots, now); err != nil {
		return err
	}
	if r.Status != RequestWaiting && !r.CanTransitionTo(RequestWaiting) {
		return fmt.Errorf("%w: cannot reschedule a %s request", ErrInvalidTransition, r.Status)
	}
	r.ProposedSlots = append([]RequestedSlot(nil), slots...)
	r.Status = RequestWaiting
	return nil
}

// IsActive returns true while the request still needs the practitioner
func (r *AppointmentRequest) IsActive() bool {
	for _, s := range ActiveRequestStatuses {
		if r.Status == s {
			return true
		}
	}
	return false
}

// DoctorRequestsFilter selects the requests of one practitioner
type DoctorRequestsFilter struct {
	DoctorID string         // required
	Status   *RequestStatus // nil means the active statuses
}
