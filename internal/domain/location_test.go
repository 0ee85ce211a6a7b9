package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wizardOnLocationStep(t *testing.T) *Wizard {
	t.Helper()
	w := newTestWizard(t)
	_, err := w.ToggleSlot("day-1", PeriodMorning)
	require.NoError(t, err)
	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())
	require.Equal(t, StepLocation, w.Step)
	return w
}

func TestLocationLookup_AppliesCurrentResult(t *testing.T) {
	w := wizardOnLocationStep(t)
	require.NoError(t, w.SetLocationType(LocationDomicile))

	ticket, err := w.BeginLocationLookup()
	require.NoError(t, err)
	assert.True(t, w.LookupPending)

	assert.True(t, w.CompleteLocationLookup(ticket, "48.8566, 2.3522"))
	assert.Equal(t, "48.8566, 2.3522", w.Selection.Location.Address)
	assert.False(t, w.LookupPending)
	assert.True(t, w.CanContinue())
}

func TestLocationLookup_RequiresDomicile(t *testing.T) {
	w := wizardOnLocationStep(t)

	_, err := w.BeginLocationLookup()
	assert.ErrorIs(t, err, ErrLookupNotAllowed)
}

func TestLocationLookup_DiscardsStaleResults(t *testing.T) {
	tests := []struct {
		name  string
		after func(t *testing.T, w *Wizard)
	}{
		{"step left", func(t *testing.T, w *Wizard) {
			_, err := w.Retreat()
			require.NoError(t, err)
		}},
		{"switched to cabinet", func(t *testing.T, w *Wizard) {
			require.NoError(t, w.SetLocationType(LocationCabinet))
		}},
		{"address typed by hand", func(t *testing.T, w *Wizard) {
			require.NoError(t, w.SetAddress("10 Rue X"))
		}},
		{"newer lookup started", func(t *testing.T, w *Wizard) {
			_, err := w.BeginLocationLookup()
			require.NoError(t, err)
		}},
		{"wizard restarted", func(t *testing.T, w *Wizard) {
			require.NoError(t, w.Restart(testNow))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := wizardOnLocationStep(t)
			require.NoError(t, w.SetLocationType(LocationDomicile))
			ticket, err := w.BeginLocationLookup()
			require.NoError(t, err)

			tt.after(t, w)
			before := w.Selection.Location.Address

			assert.False(t, w.CompleteLocationLookup(ticket, "1.0, 2.0"))
			assert.False(t, w.FailLocationLookup(ticket))
			assert.Equal(t, before, w.Selection.Location.Address)
		})
	}
}

func TestLocationLookup_TicketFromAnotherWizard(t *testing.T) {
	w := wizardOnLocationStep(t)
	require.NoError(t, w.SetLocationType(LocationDomicile))
	ticket, err := w.BeginLocationLookup()
	require.NoError(t, err)

	ticket.WizardID = "other"
	assert.False(t, w.CompleteLocationLookup(ticket, "1.0, 2.0"))
	assert.True(t, w.LookupPending)
}

func TestLocationLookup_FailureKeepsAddress(t *testing.T) {
	w := wizardOnLocationStep(t)
	require.NoError(t, w.SetLocationType(LocationDomicile))
	require.NoError(t, w.SetAddress("5 Avenue Y"))

	ticket, err := w.BeginLocationLookup()
	require.NoError(t, err)
	assert.True(t, w.FailLocationLookup(ticket))

	assert.Equal(t, "5 Avenue Y", w.Selection.Location.Address)
	assert.False(t, w.LookupPending)
}

func TestSetLocation_Validation(t *testing.T) {
	w := wizardOnLocationStep(t)

	assert.ErrorIs(t, w.SetLocationType("boat"), ErrInvalidLocationType)
	assert.ErrorIs(t, w.SetAddress(string(make([]byte, MaxAddressLength+1))), ErrInvalidAddress)
	assert.ErrorIs(t, w.SetComplement(string(make([]byte, MaxComplementLength+1))), ErrInvalidAddress)

	require.NoError(t, w.SetComplement("Digicode 1234"))
	assert.Equal(t, "Digicode 1234", w.Selection.Location.Complement)
}

func TestParseLocationType(t *testing.T) {
	lt, err := ParseLocationType("domicile")
	require.NoError(t, err)
	assert.Equal(t, LocationDomicile, lt)

	_, err = ParseLocationType("hotel")
	assert.ErrorIs(t, err, ErrInvalidLocationType)
}
