package domain

import "errors"

var (
	// ErrMissingDoctor is returned when a wizard is started without a doctor reference
	ErrMissingDoctor = errors.New("domain: doctor reference is required")

	// ErrInvalidDoctor is returned when the doctor reference does not fit the stored request
	ErrInvalidDoctor = errors.New("domain: invalid doctor reference")

	// ErrMissingUser is returned when a wizard is started without an authenticated user
	ErrMissingUser = errors.New("domain: authenticated user is required")

	// ErrStepGated is returned when Continue is pressed while the current step gate is closed
	ErrStepGated = errors.New("domain: current step is not complete")

	// ErrLastStep is returned when Continue is pressed on the confirmation step
	ErrLastStep = errors.New("domain: already on the last step")

	// ErrWrongStep is returned when an action does not belong to the current step
	ErrWrongStep = errors.New("domain: action is not available on the current step")

	// ErrUnknownSlot is returned when a (day, period) pair is not offered by the wizard
	ErrUnknownSlot = errors.New("domain: unknown time slot")

	// ErrInvalidPeriod is returned for a period other than morning/afternoon
	ErrInvalidPeriod = errors.New("domain: invalid period")

	// ErrInvalidLocationType is returned for a location type other than cabinet/domicile
	ErrInvalidLocationType = errors.New("domain: invalid location type")

	// ErrInvalidAddress is returned when the address or its complement is too long
	ErrInvalidAddress = errors.New("domain: invalid address")

	// ErrLookupNotAllowed is returned when a geolocation lookup is requested outside the domicile form
	ErrLookupNotAllowed = errors.New("domain: geolocation lookup requires a domicile location")

	// ErrInvalidPathology is returned for a pathology type other than ponctuelle/recurrente
	ErrInvalidPathology = errors.New("domain: invalid pathology type")

	// ErrInvalidBeneficiary is returned when a beneficiary record fails validation
	ErrInvalidBeneficiary = errors.New("domain: invalid beneficiary")

	// ErrIncomplete is returned on submit when a previous step no longer satisfies its gate
	ErrIncomplete = errors.New("domain: wizard is incomplete")

	// ErrAlreadySubmitted is returned for any action on a submitted wizard
	ErrAlreadySubmitted = errors.New("domain: wizard already submitted")

	// ErrNotSubmitted is returned when a submission is reverted on a wizard that was not submitted
	ErrNotSubmitted = errors.New("domain: wizard is not submitted")

	// ErrInvalidStatus is returned for an unknown appointment request status
	ErrInvalidStatus = errors.New("domain: invalid appointment request status")

	// ErrInvalidProposal is returned when a reschedule proposal has no slot, too many or duplicates
	ErrInvalidProposal = errors.New("domain: invalid reschedule proposal")

	// ErrInvalidTransition is returned when an appointment request cannot move to the requested status
	ErrInvalidTransition = errors.New("domain: invalid appointment request status transition")
)
