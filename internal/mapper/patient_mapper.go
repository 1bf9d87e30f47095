package mapper

import (
	"encoding/json"
	"fmt"

	"clinical-synth-be/internal/entity"
	"clinical-synth-be/internal/model"

	"gorm.io/datatypes"
)

type PatientMapper struct{}

func NewPatientMapper() *PatientMapper {
	return &PatientMapper{}
}

// PatientToModel serializes the full patient chart into its document row.
func (m *PatientMapper) PatientToModel(p *entity.Patient) (*model.PatientDocument, error) {
	if p == nil {
		return nil, nil
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize patient %s: %w", p.Id, err)
	}

	return &model.PatientDocument{
		Id:       p.Id,
		Name:     p.Name,
		Document: datatypes.JSON(doc),
	}, nil
}

// PatientToEntity deserializes a document row back into the patient chart.
// A row whose document no longer parses is reported, not skipped silently:
// the caller decides whether a corrupt chart is fatal for its operation.
func (m *PatientMapper) PatientToEntity(row *model.PatientDocument) (*entity.Patient, error) {
	if row == nil {
		return nil, nil
	}

	var p entity.Patient
	if err := json.Unmarshal(row.Document, &p); err != nil {
		return nil, fmt.Errorf("corrupt document for patient %s: %w", row.Id, err)
	}

	// The row columns are authoritative for identity.
	p.Id = row.Id
	if p.Name == "" {
		p.Name = row.Name
	}
	if p.Notes == nil {
		p.Notes = []entity.PatientNote{}
	}

	return &p, nil
}
