// Package audit records who did what, both durably and on a Kafka topic for
// downstream consumers.
package audit

import "time"

// Event is a single audit record.
type Event struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	SubjectID  string    `json:"subject_id,omitempty"`
	EventID    string    `json:"event_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Actions recorded across the API surface.
const (
	ActionTouristRegistered = "tourist.registered"
	ActionCardGenerated     = "card.generated"
	ActionCardFailed        = "card.failed"
	ActionEntryRecorded     = "entry.recorded"
	ActionDeparture         = "entry.departure"
	ActionEventCreated      = "event.created"
	ActionEventUpdated      = "event.updated"
	ActionStaffRegistered   = "staff.registered"
	ActionStaffUpdated      = "staff.updated"
	ActionStaffLogin        = "staff.login"
	ActionStaffDeleted      = "staff.deleted"
)
