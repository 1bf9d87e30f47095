package dto

import "clinical-synth-be/internal/entity"

type CreatePatientRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type PatientSummaryResponse struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	DateAdded    string `json:"date_added"`
	NoteCount    int    `json:"note_count"`
	QuickSummary string `json:"quick_summary,omitempty"`
}

type PatientNoteResponse struct {
	DateOfService string                `json:"date_of_service"`
	Summary       string                `json:"summary"`
	RawData       entity.ClinicalRecord `json:"raw_data"`
}

type PatientDetailResponse struct {
	Id        string                `json:"id"`
	Name      string                `json:"name"`
	DateAdded string                `json:"date_added"`
	Notes     []PatientNoteResponse `json:"notes"`
}

type SynthesizeNoteResponse struct {
	PatientId string                `json:"patient_id"`
	Note      PatientNoteResponse   `json:"note"`
	Record    entity.ClinicalRecord `json:"record"`
}
