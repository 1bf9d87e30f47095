package docstore

import (
	"context"

	"clinical-synth-be/internal/entity"
)

// DocumentStore is the access layer for whole-chart patient documents.
// Reads and writes operate on the full document; a save overwrites the
// stored chart entirely (last write wins).
type DocumentStore interface {
	LoadAll(ctx context.Context) ([]*entity.Patient, error)
	Load(ctx context.Context, patientID string) (*entity.Patient, error)
	Save(ctx context.Context, patient *entity.Patient) error
	Create(ctx context.Context, patient *entity.Patient) error
	Count(ctx context.Context) (int64, error)
}
