package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionPatientID filters chat sessions by the patient they belong to
type BySessionPatientID struct {
	PatientID string
}

func (s BySessionPatientID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("patient_id = ?", s.PatientID)
}

// ByChatSessionID filters chat messages by their session
type ByChatSessionID struct {
	SessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.SessionID)
}
