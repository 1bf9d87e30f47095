package store

import "time"

// SessionState is the in-memory working state of an active chat session.
// It tracks whether the record in the store has drifted from what the
// session last applied, so the surface can warn about unsaved changes.
type SessionState struct {
	SessionID string `json:"session_id"` // ChatSessionID
	PatientID string `json:"patient_id"`

	// Dirty is set when a directive was applied in memory but the write
	// back to the document store failed.
	Dirty bool `json:"dirty"`

	// LastSaveError holds the message of the most recent failed save.
	LastSaveError string `json:"last_save_error"`

	// LastActivity is the time of the last message in this session.
	LastActivity time.Time `json:"last_activity"`
}
