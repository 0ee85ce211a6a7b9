package domain

import "time"

// Default selection values for a fresh wizard
const (
	DefaultLocationType  = LocationCabinet
	DefaultPathologyType = PathologyPonctuelle
	DefaultIsFirstVisit  = true
	DefaultForSelf       = true
)

// Business validation constants
const (
	OfferedDaysCount       = 3
	MaxBeneficiaryAge      = 120
	MaxNameLength          = 100
	MaxAddressLength       = 300
	MaxComplementLength    = 500
	MaxPhoneLength         = 30
	MaxRelationshipLabel   = 50
	MaxDoctorIDLength      = 64
	MaxDoctorNameLength    = 200
	MaxBeneficiaryIDLength = 64
	MaxProposedSlots       = 3
)

// Session lifetime
const (
	DefaultWizardTTL = 2 * time.Hour
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveRequestStatuses are the statuses still waiting on the practitioner
var ActiveRequestStatuses = []RequestStatus{
	RequestPending,
	RequestWaiting,
	RequestConfirmed,
	RequestInProgress,
}
