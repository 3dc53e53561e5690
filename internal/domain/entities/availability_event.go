package entities

import "time"

// AvailabilityEventType identifies the kind of availability change.
type AvailabilityEventType string

const (
	EventStatusChanged   AvailabilityEventType = "status_changed"
	EventPresenceChanged AvailabilityEventType = "presence_changed"
)

// AvailabilityEvent is published on every explicit or scheduled status
// change. Per-specialist events preserve emission order; ordering across
// specialists is not guaranteed.
type AvailabilityEvent struct {
	ID           string                `json:"id"`
	EventType    AvailabilityEventType `json:"event_type"`
	SpecialistID string                `json:"specialist_id"`
	NewStatus    AvailabilityStatus    `json:"new_status"`
	IsOnline     bool                  `json:"is_online"`
	Timestamp    time.Time             `json:"timestamp"`
}
