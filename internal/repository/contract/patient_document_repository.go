package contract

import (
	"context"

	"clinical-synth-be/internal/entity"
	"clinical-synth-be/internal/repository/specification"
)

type PatientDocumentRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	Save(ctx context.Context, patient *entity.Patient) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Patient, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
