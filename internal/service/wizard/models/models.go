package models

import (
	"time"

	"github.com/mybakup/appointment-service/internal/domain"
)

// Request модели

// DoctorInput данные врача, с которыми открывается мастер
type DoctorInput struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Specialty         string  `json:"specialty"`
	ConsultationPrice float64 `json:"consultationPrice"`
}

// StartWizardRequest запрос на запуск мастера записи
type StartWizardRequest struct {
	UserID int64        `json:"-"`
	Doctor *DoctorInput `json:"doctor"`
}

// ToggleSlotRequest запрос на выбор/снятие слота
type ToggleSlotRequest struct {
	DayID  string `json:"dayId"`
	Period string `json:"period"`
}

// ChoosePatientRequest выбор пациента: сам пользователь или бенефициар
type ChoosePatientRequest struct {
	ForSelf bool `json:"forSelf"`
}

// BeneficiaryInput бенефициар, введенный вручную
type BeneficiaryInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// SelectBeneficiaryRequest выбор бенефициара: по ID из профиля либо новый
// Ровно одно из полей должно быть заполнено
type SelectBeneficiaryRequest struct {
	BeneficiaryID *string           `json:"beneficiaryId,omitempty"`
	Beneficiary   *BeneficiaryInput `json:"beneficiary,omitempty"`
}

// UpdateLocationRequest изменение места консультации (частичное)
type UpdateLocationRequest struct {
	Type       *string `json:"type,omitempty"`
	Address    *string `json:"address,omitempty"`
	Complement *string `json:"complement,omitempty"`
}

// UpdateDetailsRequest детали консультации
type UpdateDetailsRequest struct {
	PathologyType string `json:"pathologyType"`
	IsFirstVisit  bool   `json:"isFirstVisit"`
}

// Response модели

// WizardView состояние мастера для отрисовки клиентом
type WizardView struct {
	ID            string       `json:"id"`
	Step          int          `json:"step"`
	StepTitle     string       `json:"stepTitle"`
	TotalSteps    int          `json:"totalSteps"`
	Progress      int          `json:"progress"`
	CanContinue   bool         `json:"canContinue"`
	ContinueLabel string       `json:"continueLabel"`
	Doctor        DoctorView   `json:"doctor"`
	Slots         []SlotView   `json:"slots"`
	SelectedSlots []SlotView   `json:"selectedSlots"`
	Patient       PatientView  `json:"patient"`
	Location      LocationView `json:"location"`
	Details       DetailsView  `json:"details"`
	Submitted     bool         `json:"submitted"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// DoctorView врач
type DoctorView struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Specialty         string  `json:"specialty"`
	ConsultationPrice float64 `json:"consultationPrice"`
}

// SlotView предложенный слот
type SlotView struct {
	DayID    string `json:"dayId"`
	Period   string `json:"period"`
	Date     string `json:"date"` // "2026-10-17"
	Label    string `json:"label"`
	SubLabel string `json:"subLabel"`
	Selected bool   `json:"selected"`
}

// BeneficiaryView бенефициар
type BeneficiaryView struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// PatientView выбор пациента
type PatientView struct {
	ForSelf        bool             `json:"forSelf"`
	Name           string           `json:"name"`
	Beneficiary    *BeneficiaryView `json:"beneficiary"`
	PickerRequired bool             `json:"pickerRequired"`
}

// LocationView место консультации
type LocationView struct {
	Type          string `json:"type"`
	Address       string `json:"address"`
	Complement    string `json:"complement"`
	LookupPending bool   `json:"lookupPending"`
}

// DetailsView детали консультации
type DetailsView struct {
	PathologyType string `json:"pathologyType"`
	IsFirstVisit  bool   `json:"isFirstVisit"`
}

// RetreatResponse результат шага назад
// Exited=true означает, что пользователь покинул мастер с первого шага и сессия удалена
type RetreatResponse struct {
	Exited bool        `json:"exited"`
	Wizard *WizardView `json:"wizard,omitempty"`
}

// FromDomainWizard конвертирует domain модель в представление
func FromDomainWizard(w *domain.Wizard) *WizardView {
	view := &WizardView{
		ID:            w.ID,
		Step:          int(w.Step),
		StepTitle:     w.Step.Title(),
		TotalSteps:    int(domain.LastStep) + 1,
		Progress:      w.Step.Progress(),
		CanContinue:   !w.Submitted && w.CanContinue(),
		ContinueLabel: w.ContinueLabel(),
		Doctor: DoctorView{
			ID:                w.Doctor.ID,
			Name:              w.Doctor.Name,
			Specialty:         w.Doctor.Specialty,
			ConsultationPrice: w.Doctor.ConsultationPrice,
		},
		Slots:         make([]SlotView, 0, len(w.OfferedSlots)),
		SelectedSlots: make([]SlotView, 0, len(w.Selection.SelectedSlots)),
		Patient: PatientView{
			ForSelf:        w.Selection.ForSelf,
			Name:           w.PatientName(),
			PickerRequired: w.Selection.PickerOpen,
		},
		Location: LocationView{
			Type:          string(w.Selection.Location.Type),
			Address:       w.Selection.Location.Address,
			Complement:    w.Selection.Location.Complement,
			LookupPending: w.LookupPending,
		},
		Details: DetailsView{
			PathologyType: string(w.Selection.PathologyType),
			IsFirstVisit:  w.Selection.IsFirstVisit,
		},
		Submitted: w.Submitted,
		UpdatedAt: w.UpdatedAt,
	}

	for _, slot := range w.OfferedSlots {
		view.Slots = append(view.Slots, slotView(slot, w.Selection.IsSelected(slot.DayID, slot.Period)))
	}
	for _, slot := range w.SelectedTimeSlots() {
		view.SelectedSlots = append(view.SelectedSlots, slotView(slot, true))
	}
	if b := w.Selection.Beneficiary; b != nil {
		view.Patient.Beneficiary = &BeneficiaryView{
			ID:           b.ID,
			FirstName:    b.FirstName,
			LastName:     b.LastName,
			Gender:       string(b.Gender),
			Age:          b.Age,
			Phone:        b.Phone,
			Relationship: b.Relationship,
		}
	}

	return view
}

func slotView(slot domain.TimeSlot, selected bool) SlotView {
	return SlotView{
		DayID:    slot.DayID,
		Period:   string(slot.Period),
		Date:     slot.Date.Format(domain.DateFormat),
		Label:    slot.Label,
		SubLabel: slot.SubLabel,
		Selected: selected,
	}
}
