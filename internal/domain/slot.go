package domain

import (
	"fmt"
	"strings"
	"time"
)

// Period is the half-day part of an availability window
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
)

// Periods lists the periods offered for every day, in display order
var Periods = []Period{PeriodMorning, PeriodAfternoon}

// ParsePeriod validates a period coming from the outside
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if p == PeriodMorning || p == PeriodAfternoon {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// SlotKey identifies a time slot: a slot is unique by (DayID, Period)
type SlotKey struct {
	DayID  string
	Period Period
}

func (k SlotKey) String() string {
	return k.DayID + "/" + string(k.Period)
}

// TimeSlot is an availability window offered to the patient
type TimeSlot struct {
	DayID    string
	Period   Period
	Date     time.Time
	Label    string
	SubLabel string
}

// Key returns the identity of the slot
func (s TimeSlot) Key() SlotKey {
	return SlotKey{DayID: s.DayID, Period: s.Period}
}

var dayLabels = [OfferedDaysCount]string{"Demain", "Après-demain", "Dans deux jours"}

// GenerateTimeSlots builds the slots offered by a fresh wizard:
// day-1..day-3 starting tomorrow, each with a morning and an afternoon.
func GenerateTimeSlots(now time.Time) []TimeSlot {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	slots := make([]TimeSlot, 0, OfferedDaysCount*len(Periods))
	for i := 1; i <= OfferedDaysCount; i++ {
		date := today.AddDate(0, 0, i)
		label := dayLabels[i-1]
		for _, period := range Periods {
			slots = append(slots, TimeSlot{
				DayID:    fmt.Sprintf("day-%d", i),
				Period:   period,
				Date:     date,
				Label:    label,
				SubLabel: label,
			})
		}
	}
	return slots
}

// RequestedSlot is a selected slot resolved to a calendar date.
// Stored with the appointment request since day ids are only meaningful inside one wizard.
type RequestedSlot struct {
	Date   time.Time
	Period Period
}

func (s RequestedSlot) String() string {
	return s.Date.Format(DateFormat) + "/" + string(s.Period)
}

// ParseRequestedSlot parses the "YYYY-MM-DD/period" form produced by String
func ParseRequestedSlot(s string) (RequestedSlot, error) {
	datePart, periodPart, ok := strings.Cut(s, "/")
	if !ok {
		return RequestedSlot{}, fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
	date, err := time.Parse(DateFormat, datePart)
	if err != nil {
		return RequestedSlot{}, fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
	period, err := ParsePeriod(periodPart)
	if err != nil {
		return RequestedSlot{}, err
	}
	return RequestedSlot{Date: date, Period: period}, nil
}

// toggleKey adds the key when absent and removes it when present.
// Returns the new selection and whether the key is selected afterwards.
func toggleKey(selected []SlotKey, key SlotKey) ([]SlotKey, bool) {
	for i, k := range selected {
		if k == key {
			out := make([]SlotKey, 0, len(selected)-1)
			out = append(out, selected[:i]...)
			out = append(out, selected[i+1:]...)
			return out, false
		}
	}
	return append(selected, key), true
}

func containsKey(selected []SlotKey, key SlotKey) bool {
	for _, k := range selected {
		if k == key {
			return true
		}
	}
	return false
}
