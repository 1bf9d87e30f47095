package implementation

import (
	"context"
	"errors"

	"clinical-synth-be/internal/entity"
	"clinical-synth-be/internal/mapper"
	"clinical-synth-be/internal/model"
	"clinical-synth-be/internal/repository/contract"
	"clinical-synth-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PatientDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PatientMapper
}

func NewPatientDocumentRepository(db *gorm.DB) contract.PatientDocumentRepository {
	return &PatientDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPatientMapper(),
	}
}

func (r *PatientDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PatientDocumentRepositoryImpl) Create(ctx context.Context, patient *entity.Patient) error {
	m, err := r.mapper.PatientToModel(patient)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// Save writes the whole document back. Upsert on the id so the operation is
// a pure overwrite, matching the last-write-wins contract of the store.
func (r *PatientDocumentRepositoryImpl) Save(ctx context.Context, patient *entity.Patient) error {
	m, err := r.mapper.PatientToModel(patient)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
}

func (r *PatientDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error) {
	var m model.PatientDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PatientToEntity(&m)
}

func (r *PatientDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Patient, error) {
	var models []*model.PatientDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Patient, 0, len(models))
	for _, m := range models {
		e, err := r.mapper.PatientToEntity(m)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func (r *PatientDocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PatientDocument{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
