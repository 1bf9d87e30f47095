package mapper

import (
	"testing"

	"clinical-synth-be/internal/entity"
	"clinical-synth-be/internal/model"

	"gorm.io/datatypes"
)

func TestPatientRoundTrip(t *testing.T) {
	pm := NewPatientMapper()

	p := &entity.Patient{
		Id:        "P-1001",
		Name:      "Jane Doe",
		DateAdded: "2025-10-20",
		Notes: []entity.PatientNote{
			{
				DateOfService: "2025-10-20",
				Summary:       "Hypertension follow-up.",
				RawData: entity.ClinicalRecord{
					PatientId:     "P-1001",
					DateOfService: "2025-10-20",
					QuickSummary:  "Hypertension follow-up.",
					Problems: []entity.ClinicalTerm{
						{StandardName: "Hypertension", StandardCodeType: "SNOMED_CT", StandardCodeValue: "38341003"},
					},
					Medications: []entity.ClinicalTerm{},
				},
			},
		},
	}

	row, err := pm.PatientToModel(p)
	if err != nil {
		t.Fatalf("PatientToModel: %v", err)
	}
	if row.Id != "P-1001" || row.Name != "Jane Doe" {
		t.Errorf("row columns = %q/%q", row.Id, row.Name)
	}

	got, err := pm.PatientToEntity(row)
	if err != nil {
		t.Fatalf("PatientToEntity: %v", err)
	}
	if got.Name != p.Name || got.DateAdded != p.DateAdded {
		t.Errorf("got %+v, want %+v", got, p)
	}
	if len(got.Notes) != 1 || got.Notes[0].RawData.Problems[0].StandardCodeValue != "38341003" {
		t.Errorf("notes did not survive the round trip: %+v", got.Notes)
	}
}

func TestPatientToEntityCorruptDocument(t *testing.T) {
	pm := NewPatientMapper()

	row := &model.PatientDocument{
		Id:       "P-9999",
		Name:     "Broken",
		Document: datatypes.JSON(`{"name": `),
	}

	if _, err := pm.PatientToEntity(row); err == nil {
		t.Fatal("expected error for corrupt document")
	}
}

func TestPatientToEntityDefaults(t *testing.T) {
	pm := NewPatientMapper()

	row := &model.PatientDocument{
		Id:       "P-1002",
		Name:     "John Smith",
		Document: datatypes.JSON(`{"date_added": "2025-10-21"}`),
	}

	got, err := pm.PatientToEntity(row)
	if err != nil {
		t.Fatalf("PatientToEntity: %v", err)
	}
	if got.Id != "P-1002" {
		t.Errorf("Id = %q, row column should win", got.Id)
	}
	if got.Name != "John Smith" {
		t.Errorf("Name = %q, should fall back to row column", got.Name)
	}
	if got.Notes == nil {
		t.Error("Notes should default to an empty slice")
	}
}

func TestNilSafety(t *testing.T) {
	pm := NewPatientMapper()
	if row, err := pm.PatientToModel(nil); row != nil || err != nil {
		t.Errorf("nil patient should map to nil, got %v, %v", row, err)
	}

	cm := NewChatMapper()
	if cm.ChatSessionToEntity(nil) != nil || cm.ChatMessageToModel(nil) != nil {
		t.Error("nil models should map to nil")
	}
}
