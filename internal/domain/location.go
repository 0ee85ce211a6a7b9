package domain

import (
	"fmt"
	"strings"
)

// LocationType is where the consultation takes place
type LocationType string

const (
	LocationCabinet  LocationType = "cabinet"  // at the practitioner's office
	LocationDomicile LocationType = "domicile" // the practitioner travels to the patient
)

// ParseLocationType validates a location type coming from the outside
func ParseLocationType(s string) (LocationType, error) {
	t := LocationType(s)
	if t == LocationCabinet || t == LocationDomicile {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLocationType, s)
}

// LocationDetails of the consultation.
// Address and Complement only matter for domicile; they are kept when switching to cabinet.
type LocationDetails struct {
	Type       LocationType
	Address    string
	Complement string
}

// HasAddress reports whether a non-blank address is set
func (l LocationDetails) HasAddress() bool {
	return strings.TrimSpace(l.Address) != ""
}

// LookupTicket identifies one geolocation lookup.
// A result is applied only if its ticket is still the current one.
type LookupTicket struct {
	WizardID string
	Epoch    int64
}

// SetLocationType switches between cabinet and domicile
func (w *Wizard) SetLocationType(t LocationType) error {
	if err := w.requireStep(StepLocation); err != nil {
		return err
	}
	if t != LocationCabinet && t != LocationDomicile {
		return fmt.Errorf("%w: %q", ErrInvalidLocationType, t)
	}
	if w.Selection.Location.Type != t {
		w.invalidateLookup()
	}
	w.Selection.Location.Type = t
	return nil
}

// SetAddress stores the typed address; a pending lookup must not overwrite it afterwards
func (w *Wizard) SetAddress(address string) error {
	if err := w.requireStep(StepLocation); err != nil {
		return err
	}
	if len(address) > MaxAddressLength {
		return fmt.Errorf("%w: address is too long", ErrInvalidAddress)
	}
	w.invalidateLookup()
	w.Selection.Location.Address = address
	return nil
}

// SetComplement stores the address complement (digicode, floor...)
func (w *Wizard) SetComplement(complement string) error {
	if err := w.requireStep(StepLocation); err != nil {
		return err
	}
	if len(complement) > MaxComplementLength {
		return fmt.Errorf("%w: complement is too long", ErrInvalidAddress)
	}
	w.Selection.Location.Complement = complement
	return nil
}

// BeginLocationLookup starts a geolocation lookup and returns its ticket.
// Any earlier ticket becomes stale.
func (w *Wizard) BeginLocationLookup() (LookupTicket, error) {
	if err := w.requireStep(StepLocation); err != nil {
		return LookupTicket{}, err
	}
	if w.Selection.Location.Type != LocationDomicile {
		return LookupTicket{}, ErrLookupNotAllowed
	}
	w.LookupEpoch++
	w.LookupPending = true
	return LookupTicket{WizardID: w.ID, Epoch: w.LookupEpoch}, nil
}

// IsLookupCurrent reports whether a lookup result for the ticket may still be applied
func (w *Wizard) IsLookupCurrent(t LookupTicket) bool {
	return t.WizardID == w.ID &&
		t.Epoch == w.LookupEpoch &&
		w.LookupPending &&
		!w.Submitted &&
		w.Step == StepLocation &&
		w.Selection.Location.Type == LocationDomicile
}

// CompleteLocationLookup applies a successful lookup.
// Returns false and leaves the state untouched when the ticket is stale.
func (w *Wizard) CompleteLocationLookup(t LookupTicket, address string) bool {
	if !w.IsLookupCurrent(t) {
		return false
	}
	w.Selection.Location.Address = address
	w.LookupPending = false
	return true
}

// FailLocationLookup closes a failed lookup; the address stays as it was
func (w *Wizard) FailLocationLookup(t LookupTicket) bool {
	if !w.IsLookupCurrent(t) {
		return false
	}
	w.LookupPending = false
	return true
}

// invalidateLookup makes every outstanding ticket stale
func (w *Wizard) invalidateLookup() {
	if w.LookupPending {
		w.LookupEpoch++
	}
	w.LookupPending = false
}
