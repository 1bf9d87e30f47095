package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinical-synth-be/internal/entity"
	"clinical-synth-be/internal/pkg/logger"
	"clinical-synth-be/internal/repository/contract"
	"clinical-synth-be/internal/repository/specification"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
)

const (
	maxSaveAttempts = 5
	cacheTTL        = 5 * time.Minute
)

// DocumentStoreImpl fronts the patient document repository with write
// retries and an optional Redis read-through cache. Redis being nil or
// unreachable degrades to plain repository reads.
type DocumentStoreImpl struct {
	repo   contract.PatientDocumentRepository
	rdb    *redis.Client
	logger logger.ILogger
}

func NewDocumentStore(repo contract.PatientDocumentRepository, rdb *redis.Client, log logger.ILogger) DocumentStore {
	return &DocumentStoreImpl{
		repo:   repo,
		rdb:    rdb,
		logger: log,
	}
}

func cacheKey(patientID string) string {
	return fmt.Sprintf("patient:doc:%s", patientID)
}

func (s *DocumentStoreImpl) LoadAll(ctx context.Context) ([]*entity.Patient, error) {
	return s.repo.FindAll(ctx, specification.OrderBy{Field: "name"})
}

func (s *DocumentStoreImpl) Load(ctx context.Context, patientID string) (*entity.Patient, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey(patientID)).Result(); err == nil {
			var p entity.Patient
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				return &p, nil
			}
			// Unreadable cache entry, fall through to the repository
			s.rdb.Del(ctx, cacheKey(patientID))
		}
	}

	p, err := s.repo.FindOne(ctx, specification.ByPatientID{PatientID: patientID})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	s.cacheSet(ctx, p)
	return p, nil
}

// Save overwrites the stored document, retrying transient failures with
// exponential backoff before giving up. The caller keeps the in-memory
// record either way and decides how to surface a final failure.
func (s *DocumentStoreImpl) Save(ctx context.Context, patient *entity.Patient) error {
	operation := func() (struct{}, error) {
		if err := s.repo.Save(ctx, patient); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxSaveAttempts),
	)
	if err != nil {
		s.logger.Error("DOCSTORE", "Save failed after retries", map[string]interface{}{
			"patient_id": patient.Id,
			"attempts":   maxSaveAttempts,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to save record for %s after %d attempts: %w", patient.Id, maxSaveAttempts, err)
	}

	s.cacheSet(ctx, patient)
	return nil
}

func (s *DocumentStoreImpl) Create(ctx context.Context, patient *entity.Patient) error {
	if err := s.repo.Create(ctx, patient); err != nil {
		return err
	}
	s.cacheSet(ctx, patient)
	return nil
}

func (s *DocumentStoreImpl) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *DocumentStoreImpl) cacheSet(ctx context.Context, patient *entity.Patient) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(patient)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(patient.Id), raw, cacheTTL).Err(); err != nil {
		s.logger.Warn("DOCSTORE", "Failed to update cache", map[string]interface{}{
			"patient_id": patient.Id,
			"error":      err.Error(),
		})
	}
}
