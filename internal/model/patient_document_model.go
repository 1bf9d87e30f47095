package model

import (
	"time"

	"gorm.io/datatypes"
)

// PatientDocument is the persistence shape of a patient record. The whole
// chart lives in one JSON document per row, written back in full on every
// save. Last write wins.
type PatientDocument struct {
	Id        string         `gorm:"column:id;primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Document  datatypes.JSON `gorm:"column:document;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (PatientDocument) TableName() string {
	return "patient_documents"
}
