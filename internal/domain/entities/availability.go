package entities

import "time"

// AvailabilityStatus is the live workload status of a specialist.
type AvailabilityStatus string

const (
	StatusAvailable          AvailabilityStatus = "available"
	StatusBusy               AvailabilityStatus = "busy"
	StatusPartiallyAvailable AvailabilityStatus = "partially-available"
)

// Valid reports whether the status is one of the three known values.
func (s AvailabilityStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusPartiallyAvailable:
		return true
	}
	return false
}

// MaxConsultations caps the concurrent consultation load per specialist.
const MaxConsultations = 5

// AvailabilityState is the live presence/workload state attached to a
// specialist. Status and IsOnline are independent axes and may be
// momentarily inconsistent; the engine accepts that rather than correcting it.
type AvailabilityState struct {
	SpecialistID         string             `json:"specialist_id"`
	Status               AvailabilityStatus `json:"status"`
	IsOnline             bool               `json:"is_online"`
	CurrentConsultations int                `json:"current_consultations"`
	MaxConsultations     int                `json:"max_consultations"`
	// NextAvailable is zero when the specialist has no working hours at all
	// (unavailable indefinitely).
	NextAvailable time.Time `json:"next_available"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Clone returns a copy safe to hand to readers.
func (a *AvailabilityState) Clone() AvailabilityState {
	return *a
}
