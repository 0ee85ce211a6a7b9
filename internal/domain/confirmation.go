package domain

import "fmt"

// Confirmation is what the wizard hands over on submit
type Confirmation struct {
	WizardID      string
	UserID        int64
	PatientName   string
	ForSelf       bool
	BeneficiaryID *string
	Doctor        Doctor
	Slots         []RequestedSlot
	Location      LocationDetails
	PathologyType PathologyType
	IsFirstVisit  bool
}

// Submit packages the gathered state and marks the wizard as submitted.
// One-shot: a second call returns ErrAlreadySubmitted.
func (w *Wizard) Submit() (*Confirmation, error) {
	if w.Submitted {
		return nil, ErrAlreadySubmitted
	}
	if w.Step != StepConfirmation {
		return nil, fmt.Errorf("%w: submit is only available on the confirmation step", ErrWrongStep)
	}
	if step, closed := firstClosedGate(w.Selection); closed {
		return nil, fmt.Errorf("%w: step %d (%s)", ErrIncomplete, step, step.Title())
	}

	slots := w.SelectedTimeSlots()
	requested := make([]RequestedSlot, 0, len(slots))
	for _, slot := range slots {
		requested = append(requested, RequestedSlot{Date: slot.Date, Period: slot.Period})
	}

	location := w.Selection.Location
	if location.Type == LocationCabinet {
		location.Address = ""
		location.Complement = ""
	}

	c := &Confirmation{
		WizardID:      w.ID,
		UserID:        w.User.ID,
		PatientName:   w.PatientName(),
		ForSelf:       w.Selection.ForSelf,
		Doctor:        w.Doctor,
		Slots:         requested,
		Location:      location,
		PathologyType: w.Selection.PathologyType,
		IsFirstVisit:  w.Selection.IsFirstVisit,
	}
	if !w.Selection.ForSelf && w.Selection.Beneficiary != nil {
		id := w.Selection.Beneficiary.ID
		c.BeneficiaryID = &id
	}

	w.invalidateLookup()
	w.Submitted = true
	return c, nil
}

// RevertSubmission reopens a submitted wizard when the hand-off could not be recorded
func (w *Wizard) RevertSubmission() error {
	if !w.Submitted {
		return ErrNotSubmitted
	}
	w.Submitted = false
	return nil
}
