package domain

import (
	"fmt"
	"strings"
)

// Gender of a beneficiary
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// AuthUser is the authenticated user the wizard books for when ForSelf is set.
// Captured once when the wizard starts.
type AuthUser struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// DisplayName returns "First Last"
func (u AuthUser) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Beneficiary is a person other than the authenticated user on whose behalf an appointment is booked
type Beneficiary struct {
	ID           string
	FirstName    string
	LastName     string
	Gender       Gender
	Age          int
	Phone        string
	Relationship string
}

// DisplayName returns "First Last"
func (b Beneficiary) DisplayName() string {
	return b.FirstName + " " + b.LastName
}

// NewBeneficiary validates the fields and builds a Beneficiary.
// Relationship is optional, everything else is required.
func NewBeneficiary(id, firstName, lastName string, gender Gender, age int, phone, relationship string) (*Beneficiary, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	phone = strings.TrimSpace(phone)
	relationship = strings.TrimSpace(relationship)

	switch {
	case id == "" || len(id) > MaxBeneficiaryIDLength:
		return nil, fmt.Errorf("%w: id must be 1..%d characters", ErrInvalidBeneficiary, MaxBeneficiaryIDLength)
	case firstName == "" || len(firstName) > MaxNameLength:
		return nil, fmt.Errorf("%w: firstName must be 1..%d characters", ErrInvalidBeneficiary, MaxNameLength)
	case lastName == "" || len(lastName) > MaxNameLength:
		return nil, fmt.Errorf("%w: lastName must be 1..%d characters", ErrInvalidBeneficiary, MaxNameLength)
	case gender != GenderMale && gender != GenderFemale && gender != GenderOther:
		return nil, fmt.Errorf("%w: unknown gender %q", ErrInvalidBeneficiary, gender)
	case age < 0 || age > MaxBeneficiaryAge:
		return nil, fmt.Errorf("%w: age must be between 0 and %d", ErrInvalidBeneficiary, MaxBeneficiaryAge)
	case phone == "" || len(phone) > MaxPhoneLength:
		return nil, fmt.Errorf("%w: phone must be 1..%d characters", ErrInvalidBeneficiary, MaxPhoneLength)
	case len(relationship) > MaxRelationshipLabel:
		return nil, fmt.Errorf("%w: relationship is too long", ErrInvalidBeneficiary)
	}

	return &Beneficiary{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		Gender:       gender,
		Age:          age,
		Phone:        phone,
		Relationship: relationship,
	}, nil
}

// ChooseForSelf books the appointment for the authenticated user.
// A previously chosen beneficiary is kept so that switching back does not lose it.
func (w *Wizard) ChooseForSelf() error {
	if err := w.requireStep(StepPatient); err != nil {
		return err
	}
	w.Selection.ForSelf = true
	w.Selection.PickerOpen = false
	return nil
}

// ChooseForBeneficiary books for someone else.
// Returns true when the beneficiary picker must be opened (no beneficiary chosen yet).
func (w *Wizard) ChooseForBeneficiary() (bool, error) {
	if err := w.requireStep(StepPatient); err != nil {
		return false, err
	}
	w.Selection.ForSelf = false
	if w.Selection.Beneficiary == nil {
		w.Selection.PickerOpen = true
		return true, nil
	}
	return false, nil
}

// OpenBeneficiaryPicker is the "change beneficiary" action; no other state is reset
func (w *Wizard) OpenBeneficiaryPicker() error {
	if err := w.requireStep(StepPatient); err != nil {
		return err
	}
	w.Selection.ForSelf = false
	w.Selection.PickerOpen = true
	return nil
}

// CancelBeneficiaryPicker closes the picker without a choice.
// With no beneficiary selected the patient step stays gated.
func (w *Wizard) CancelBeneficiaryPicker() error {
	if err := w.requireStep(StepPatient); err != nil {
		return err
	}
	w.Selection.PickerOpen = false
	return nil
}

// SelectBeneficiary sets the beneficiary and forces ForSelf to false
func (w *Wizard) SelectBeneficiary(b *Beneficiary) error {
	if err := w.requireStep(StepPatient); err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("%w: beneficiary is required", ErrInvalidBeneficiary)
	}
	w.Selection.Beneficiary = b
	w.Selection.ForSelf = false
	w.Selection.PickerOpen = false
	return nil
}

// PatientName resolves the display name of the person the appointment is for
func (w *Wizard) PatientName() string {
	if w.Selection.ForSelf || w.Selection.Beneficiary == nil {
		return w.User.DisplayName()
	}
	return w.Selection.Beneficiary.DisplayName()
}
