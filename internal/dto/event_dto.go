package dto

import (
	"time"

	"clinical-synth-be/internal/entity"
)

// RecordChangedMessage is the payload published on the internal bus after
// any successful or attempted mutation of a patient record.
type RecordChangedMessage struct {
	PatientId     string                 `json:"patient_id"`
	ChatSessionId string                 `json:"chat_session_id,omitempty"`
	Source        string                 `json:"source"` // "chat" | "synthesis" | "seed"
	Action        string                 `json:"action,omitempty"`
	Target        string                 `json:"target,omitempty"`
	Status        string                 `json:"status"`
	Saved         bool                   `json:"saved"`
	Record        *entity.ClinicalRecord `json:"record,omitempty"`
	OccurredAt    time.Time              `json:"occurred_at"`
}
