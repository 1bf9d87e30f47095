package entity

// ClinicalTerm is one standardized code entry (problem or medication).
// Equality is structural: two terms match only when all three fields match.
type ClinicalTerm struct {
	StandardName      string `json:"standard_name"`
	StandardCodeType  string `json:"standard_code_type"`
	StandardCodeValue string `json:"standard_code_value"`
}

// Equal reports structural equality between two terms.
func (t ClinicalTerm) Equal(other ClinicalTerm) bool {
	return t.StandardName == other.StandardName &&
		t.StandardCodeType == other.StandardCodeType &&
		t.StandardCodeValue == other.StandardCodeValue
}

// ClinicalRecord is the structured summary synthesized from uploaded
// documents. It is the payload the chat assistant reads and mutates.
type ClinicalRecord struct {
	PatientId     string         `json:"patient_id"`
	DateOfService string         `json:"date_of_service"`
	QuickSummary  string         `json:"quick_summary"`
	Problems      []ClinicalTerm `json:"problems"`
	Medications   []ClinicalTerm `json:"medications"`
}

// PatientNote is one synthesis result appended to a patient's history.
// Only the latest note's RawData is ever mutated; older notes are history.
type PatientNote struct {
	DateOfService string         `json:"date_of_service"`
	Summary       string         `json:"summary"`
	RawData       ClinicalRecord `json:"raw_data"`
}

type Patient struct {
	Id        string
	Name      string
	DateAdded string
	Notes     []PatientNote
}

// LatestNote returns the most recent note, or nil when the patient has no
// synthesized record yet.
func (p *Patient) LatestNote() *PatientNote {
	if len(p.Notes) == 0 {
		return nil
	}
	return &p.Notes[len(p.Notes)-1]
}
