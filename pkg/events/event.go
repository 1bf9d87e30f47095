package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RECORD_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the record pipeline.
const (
	EventRecordChanged    = "RECORD_CHANGED"
	EventNoteSynthesized  = "NOTE_SYNTHESIZED"
	EventPatientCreated   = "PATIENT_CREATED"
	EventRecordSaveFailed = "RECORD_SAVE_FAILED"
)
