package wizard

import (
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
)

// wizardRecord JSON представление сессии мастера в Redis
type wizardRecord struct {
	ID            string           `json:"id"`
	User          userRecord       `json:"user"`
	Doctor        doctorRecord     `json:"doctor"`
	Step          int              `json:"step"`
	OfferedSlots  []timeSlotRecord `json:"offeredSlots"`
	Selection     selectionRecord  `json:"selection"`
	LookupEpoch   int64            `json:"lookupEpoch"`
	LookupPending bool             `json:"lookupPending"`
	Submitted     bool             `json:"submitted"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type userRecord struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type doctorRecord struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Specialty         string  `json:"specialty"`
	ConsultationPrice float64 `json:"consultationPrice"`
}

type timeSlotRecord struct {
	DayID    string `json:"dayId"`
	Period   string `json:"period"`
	Date     string `json:"date"` // YYYY-MM-DD
	Label    string `json:"label"`
	SubLabel string `json:"subLabel"`
}

type slotKeyRecord struct {
	DayID  string `json:"dayId"`
	Period string `json:"period"`
}

type beneficiaryRecord struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

type selectionRecord struct {
	SelectedSlots []slotKeyRecord    `json:"selectedSlots"`
	ForSelf       bool               `json:"forSelf"`
	Beneficiary   *beneficiaryRecord `json:"beneficiary,omitempty"`
	PickerOpen    bool               `json:"pickerOpen"`
	LocationType  string             `json:"locationType"`
	Address       string             `json:"address,omitempty"`
	Complement    string             `json:"complement,omitempty"`
	PathologyType string             `json:"pathologyType"`
	IsFirstVisit  bool               `json:"isFirstVisit"`
}

// toRecord конвертирует domain модель в запись Redis
func toRecord(w *domain.Wizard) *wizardRecord {
	rec := &wizardRecord{
		ID: w.ID,
		User: userRecord{
			ID:        w.User.ID,
			FirstName: w.User.FirstName,
			LastName:  w.User.LastName,
			Email:     w.User.Email,
		},
		Doctor: doctorRecord{
			ID:                w.Doctor.ID,
			Name:              w.Doctor.Name,
			Specialty:         w.Doctor.Specialty,
			ConsultationPrice: w.Doctor.ConsultationPrice,
		},
		Step:          int(w.Step),
		OfferedSlots:  make([]timeSlotRecord, 0, len(w.OfferedSlots)),
		LookupEpoch:   w.LookupEpoch,
		LookupPending: w.LookupPending,
		Submitted:     w.Submitted,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}

	for _, s := range w.OfferedSlots {
		rec.OfferedSlots = append(rec.OfferedSlots, timeSlotRecord{
			DayID:    s.DayID,
			Period:   string(s.Period),
			Date:     s.Date.Format(domain.DateFormat),
			Label:    s.Label,
			SubLabel: s.SubLabel,
		})
	}

	sel := w.Selection
	rec.Selection = selectionRecord{
		SelectedSlots: make([]slotKeyRecord, 0, len(sel.SelectedSlots)),
		ForSelf:       sel.ForSelf,
		PickerOpen:    sel.PickerOpen,
		LocationType:  string(sel.Location.Type),
		Address:       sel.Location.Address,
		Complement:    sel.Location.Complement,
		PathologyType: string(sel.PathologyType),
		IsFirstVisit:  sel.IsFirstVisit,
	}
	for _, k := range sel.SelectedSlots {
		rec.Selection.SelectedSlots = append(rec.Selection.SelectedSlots, slotKeyRecord{
			DayID:  k.DayID,
			Period: string(k.Period),
		})
	}
	if b := sel.Beneficiary; b != nil {
		rec.Selection.Beneficiary = &beneficiaryRecord{
			ID:           b.ID,
			FirstName:    b.FirstName,
			LastName:     b.LastName,
			Gender:       string(b.Gender),
			Age:          b.Age,
			Phone:        b.Phone,
			Relationship: b.Relationship,
		}
	}

	return rec
}

// toDomain конвертирует запись Redis в domain модель
func (r *wizardRecord) toDomain() (*domain.Wizard, error) {
	w := &domain.Wizard{
		ID: r.ID,
		User: domain.AuthUser{
			ID:        r.User.ID,
			FirstName: r.User.FirstName,
			LastName:  r.User.LastName,
			Email:     r.User.Email,
		},
		Doctor: domain.Doctor{
			ID:                r.Doctor.ID,
			Name:              r.Doctor.Name,
			Specialty:         r.Doctor.Specialty,
			ConsultationPrice: r.Doctor.ConsultationPrice,
		},
		Step:          domain.Step(r.Step),
		OfferedSlots:  make([]domain.TimeSlot, 0, len(r.OfferedSlots)),
		LookupEpoch:   r.LookupEpoch,
		LookupPending: r.LookupPending,
		Submitted:     r.Submitted,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if !w.Step.Valid() {
		return nil, domain.ErrWrongStep
	}

	for _, s := range r.OfferedSlots {
		date, err := time.Parse(domain.DateFormat, s.Date)
		if err != nil {
			return nil, err
		}
		w.OfferedSlots = append(w.OfferedSlots, domain.TimeSlot{
			DayID:    s.DayID,
			Period:   domain.Period(s.Period),
			Date:     date,
			Label:    s.Label,
			SubLabel: s.SubLabel,
		})
	}

	sel := r.Selection
	w.Selection = domain.SelectionState{
		SelectedSlots: make([]domain.SlotKey, 0, len(sel.SelectedSlots)),
		ForSelf:       sel.ForSelf,
		PickerOpen:    sel.PickerOpen,
		Location: domain.LocationDetails{
			Type:       domain.LocationType(sel.LocationType),
			Address:    sel.Address,
			Complement: sel.Complement,
		},
		PathologyType: domain.PathologyType(sel.PathologyType),
		IsFirstVisit:  sel.IsFirstVisit,
	}
	for _, k := range sel.SelectedSlots {
		w.Selection.SelectedSlots = append(w.Selection.SelectedSlots, domain.SlotKey{
			DayID:  k.DayID,
			Period: domain.Period(k.Period),
		})
	}
	if b := sel.Beneficiary; b != nil {
		w.Selection.Beneficiary = &domain.Beneficiary{
			ID:           b.ID,
			FirstName:    b.FirstName,
			LastName:     b.LastName,
			Gender:       domain.Gender(b.Gender),
			Age:          b.Age,
			Phone:        b.Phone,
			Relationship: b.Relationship,
		}
	}

	return w, nil
}
