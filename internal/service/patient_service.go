package service

import (
	"context"
	"fmt"
	"time"

	"clinical-synth-be/internal/dto"
	"clinical-synth-be/internal/entity"
	"clinical-synth-be/internal/pkg/logger"
	"clinical-synth-be/internal/repository/docstore"
	"clinical-synth-be/pkg/events"
	pktNats "clinical-synth-be/pkg/nats"
)

type IPatientService interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientSummaryResponse, error)
	List(ctx context.Context) ([]*dto.PatientSummaryResponse, error)
	Show(ctx context.Context, id string) (*dto.PatientDetailResponse, error)
	SeedDemoData(ctx context.Context) error
}

type patientService struct {
	docStore       docstore.DocumentStore
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewPatientService(
	docStore docstore.DocumentStore,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IPatientService {
	return &patientService{
		docStore:       docStore,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *patientService) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientSummaryResponse, error) {
	count, err := s.docStore.Count(ctx)
	if err != nil {
		return nil, err
	}

	patient := entity.Patient{
		Id:        fmt.Sprintf("P-%d", count+1001),
		Name:      req.Name,
		DateAdded: time.Now().Format("2006-01-02"),
		Notes:     []entity.PatientNote{},
	}

	if err := s.docStore.Create(ctx, &patient); err != nil {
		return nil, err
	}

	s.logger.Info("PATIENT", "Patient created", map[string]interface{}{
		"patient_id": patient.Id,
		"name":       patient.Name,
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.EventPatientCreated,
			Data: map[string]interface{}{
				"patient_id": patient.Id,
				"name":       patient.Name,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PATIENT", "Failed to publish PATIENT_CREATED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return toPatientSummary(&patient), nil
}

func (s *patientService) List(ctx context.Context) ([]*dto.PatientSummaryResponse, error) {
	patients, err := s.docStore.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PatientSummaryResponse, 0, len(patients))
	for _, p := range patients {
		res = append(res, toPatientSummary(p))
	}
	return res, nil
}

func (s *patientService) Show(ctx context.Context, id string) (*dto.PatientDetailResponse, error) {
	patient, err := s.docStore.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, nil // Not found
	}

	notes := make([]dto.PatientNoteResponse, 0, len(patient.Notes))
	for _, n := range patient.Notes {
		notes = append(notes, dto.PatientNoteResponse{
			DateOfService: n.DateOfService,
			Summary:       n.Summary,
			RawData:       n.RawData,
		})
	}

	return &dto.PatientDetailResponse{
		Id:        patient.Id,
		Name:      patient.Name,
		DateAdded: patient.DateAdded,
		Notes:     notes,
	}, nil
}

// SeedDemoData inserts the two demo patients when the store is empty.
// An already-populated store is left untouched.
func (s *patientService) SeedDemoData(ctx context.Context) error {
	count, err := s.docStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	demo := []entity.Patient{
		{Id: "P-1001", Name: "Jane Doe", DateAdded: "2025-10-01", Notes: []entity.PatientNote{}},
		{Id: "P-1002", Name: "John Smith", DateAdded: "2025-10-15", Notes: []entity.PatientNote{}},
	}

	for i := range demo {
		if err := s.docStore.Create(ctx, &demo[i]); err != nil {
			return fmt.Errorf("failed to seed patient %s: %w", demo[i].Id, err)
		}
	}

	s.logger.Info("PATIENT", "Demo patients seeded", map[string]interface{}{
		"count": len(demo),
	})
	return nil
}

func toPatientSummary(p *entity.Patient) *dto.PatientSummaryResponse {
	res := &dto.PatientSummaryResponse{
		Id:        p.Id,
		Name:      p.Name,
		DateAdded: p.DateAdded,
		NoteCount: len(p.Notes),
	}
	if latest := p.LatestNote(); latest != nil {
		res.QuickSummary = latest.RawData.QuickSummary
	}
	return res
}
