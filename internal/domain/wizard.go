package domain

import (
	"fmt"
	"strings"
	"time"
)

// Step is the index of a wizard step
type Step int

const (
	StepAvailability Step = iota
	StepPatient
	StepLocation
	StepDetails
	StepConfirmation
)

// FirstStep and LastStep bound the step index
const (
	FirstStep = StepAvailability
	LastStep  = StepConfirmation
)

var stepTitles = [...]string{"Disponibilités", "Patient", "Localisation", "Détails", "Validation"}

// Title returns the step title shown in the progress bar
func (s Step) Title() string {
	if !s.Valid() {
		return ""
	}
	return stepTitles[s]
}

// Progress returns the completion percentage shown in the progress bar
func (s Step) Progress() int {
	if !s.Valid() {
		return 0
	}
	return (int(s) + 1) * 100 / (int(LastStep) + 1)
}

// Valid reports whether the index is inside [FirstStep, LastStep]
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// PathologyType of the consultation
type PathologyType string

const (
	PathologyPonctuelle PathologyType = "ponctuelle"
	PathologyRecurrente PathologyType = "recurrente"
)

// ParsePathologyType validates a pathology type coming from the outside
func ParsePathologyType(s string) (PathologyType, error) {
	p := PathologyType(s)
	if p == PathologyPonctuelle || p == PathologyRecurrente {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPathology, s)
}

// Doctor is the practitioner the appointment is requested from.
// Opaque to the wizard beyond display.
type Doctor struct {
	ID                string
	Name              string
	Specialty         string
	ConsultationPrice float64
}

// SelectionState is everything the patient entered so far
type SelectionState struct {
	SelectedSlots []SlotKey // in selection order
	ForSelf       bool
	Beneficiary   *Beneficiary
	PickerOpen    bool // beneficiary picker requested and not yet answered
	Location      LocationDetails
	PathologyType PathologyType
	IsFirstVisit  bool
}

// NewSelectionState returns the defaults of a fresh wizard
func NewSelectionState() SelectionState {
	return SelectionState{
		SelectedSlots: []SlotKey{},
		ForSelf:       DefaultForSelf,
		Location:      LocationDetails{Type: DefaultLocationType},
		PathologyType: DefaultPathologyType,
		IsFirstVisit:  DefaultIsFirstVisit,
	}
}

// IsSelected is a pure membership query
func (s SelectionState) IsSelected(dayID string, period Period) bool {
	return containsKey(s.SelectedSlots, SlotKey{DayID: dayID, Period: period})
}

// Wizard is one appointment booking session
type Wizard struct {
	ID            string
	User          AuthUser
	Doctor        Doctor
	Step          Step
	OfferedSlots  []TimeSlot
	Selection     SelectionState
	LookupEpoch   int64
	LookupPending bool
	Submitted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewWizard starts a wizard for the user and doctor on step 0
func NewWizard(id string, user AuthUser, doctor Doctor, now time.Time) (*Wizard, error) {
	if strings.TrimSpace(doctor.ID) == "" {
		return nil, ErrMissingDoctor
	}
	if len(doctor.ID) > MaxDoctorIDLength {
		return nil, fmt.Errorf("%w: id is longer than %d characters", ErrInvalidDoctor, MaxDoctorIDLength)
	}
	if len(doctor.Name) > MaxDoctorNameLength {
		return nil, fmt.Errorf("%w: name is longer than %d characters", ErrInvalidDoctor, MaxDoctorNameLength)
	}
	if user.ID <= 0 {
		return nil, ErrMissingUser
	}

	return &Wizard{
		ID:           id,
		User:         user,
		Doctor:       doctor,
		Step:         FirstStep,
		OfferedSlots: GenerateTimeSlots(now),
		Selection:    NewSelectionState(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ToggleSlot selects the (day, period) slot, or deselects it when already selected.
// Returns whether the slot is selected afterwards.
func (w *Wizard) ToggleSlot(dayID string, period Period) (bool, error) {
	if err := w.requireStep(StepAvailability); err != nil {
		return false, err
	}
	key := SlotKey{DayID: dayID, Period: period}
	if !w.offers(key) {
		return false, fmt.Errorf("%w: %s", ErrUnknownSlot, key)
	}

	var selected bool
	w.Selection.SelectedSlots, selected = toggleKey(w.Selection.SelectedSlots, key)
	return selected, nil
}

// CanContinue evaluates the gate of the current step
func (w *Wizard) CanContinue() bool {
	return CanContinue(w.Step, w.Selection)
}

// Advance moves to the next step when the current gate is open
func (w *Wizard) Advance() error {
	if w.Submitted {
		return ErrAlreadySubmitted
	}
	if w.Step >= LastStep {
		return ErrLastStep
	}
	if !w.CanContinue() {
		return fmt.Errorf("%w: step %d (%s)", ErrStepGated, w.Step, w.Step.Title())
	}
	w.moveTo(w.Step + 1)
	return nil
}

// Retreat moves to the previous step.
// On the first step it returns exit=true and the caller leaves the wizard.
func (w *Wizard) Retreat() (exit bool, err error) {
	if w.Submitted {
		return false, ErrAlreadySubmitted
	}
	if w.Step <= FirstStep {
		return true, nil
	}
	w.moveTo(w.Step - 1)
	return false, nil
}

// Restart is the "new booking" jump: back to step 0 with a fresh selection and fresh slots
func (w *Wizard) Restart(now time.Time) error {
	if w.Submitted {
		return ErrAlreadySubmitted
	}
	w.moveTo(FirstStep)
	w.Selection = NewSelectionState()
	w.OfferedSlots = GenerateTimeSlots(now)
	return nil
}

// SetDetails stores the consultation details; the step has no required fields
func (w *Wizard) SetDetails(pathology PathologyType, isFirstVisit bool) error {
	if err := w.requireStep(StepDetails); err != nil {
		return err
	}
	if pathology != PathologyPonctuelle && pathology != PathologyRecurrente {
		return fmt.Errorf("%w: %q", ErrInvalidPathology, pathology)
	}
	w.Selection.PathologyType = pathology
	w.Selection.IsFirstVisit = isFirstVisit
	return nil
}

// SelectedTimeSlots resolves the selection to offered slots, in selection order
func (w *Wizard) SelectedTimeSlots() []TimeSlot {
	out := make([]TimeSlot, 0, len(w.Selection.SelectedSlots))
	for _, key := range w.Selection.SelectedSlots {
		for _, slot := range w.OfferedSlots {
			if slot.Key() == key {
				out = append(out, slot)
				break
			}
		}
	}
	return out
}

// ContinueLabel returns the text of the bottom action button
func (w *Wizard) ContinueLabel() string {
	return ContinueLabel(w.Step, len(w.Selection.SelectedSlots))
}

// ContinueLabel returns the button text for a step and a number of selected slots
func ContinueLabel(step Step, selectedCount int) string {
	switch step {
	case StepAvailability:
		switch {
		case selectedCount <= 0:
			return "Sélectionnez un créneau"
		case selectedCount == 1:
			return "Continuer (1 créneau sélectionné)"
		default:
			return fmt.Sprintf("Continuer (%d créneaux sélectionnés)", selectedCount)
		}
	case StepConfirmation:
		return "Confirmer ma demande"
	default:
		return "Suivant"
	}
}

func (w *Wizard) requireStep(step Step) error {
	if w.Submitted {
		return ErrAlreadySubmitted
	}
	if w.Step != step {
		return fmt.Errorf("%w: expected step %d, current step %d", ErrWrongStep, step, w.Step)
	}
	return nil
}

func (w *Wizard) moveTo(step Step) {
	w.invalidateLookup()
	w.Selection.PickerOpen = false
	w.Step = step
}

func (w *Wizard) offers(key SlotKey) bool {
	for _, slot := range w.OfferedSlots {
		if slot.Key() == key {
			return true
		}
	}
	return false
}
