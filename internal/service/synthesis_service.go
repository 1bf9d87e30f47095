package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinical-synth-be/internal/dto"
	"clinical-synth-be/internal/entity"
	"clinical-synth-be/internal/pkg/logger"
	"clinical-synth-be/internal/repository/docstore"
	"clinical-synth-be/pkg/synthesis"
)

type ISynthesisService interface {
	SynthesizeNote(ctx context.Context, patientId string, images []synthesis.ImagePart) (*dto.SynthesizeNoteResponse, error)
	GetNotes(ctx context.Context, patientId string) ([]*dto.PatientNoteResponse, error)
}

type synthesisService struct {
	docStore         docstore.DocumentStore
	synthClient      synthesis.Client
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSynthesisService(
	docStore docstore.DocumentStore,
	synthClient synthesis.Client,
	publisherService IPublisherService,
	log logger.ILogger,
) ISynthesisService {
	return &synthesisService{
		docStore:         docStore,
		synthClient:      synthClient,
		publisherService: publisherService,
		logger:           log,
	}
}

// SynthesizeNote runs the OCR + standardization pass over the uploaded
// document images and appends the result as a new note on the patient.
// The synthesized record becomes the patient's current record.
func (s *synthesisService) SynthesizeNote(ctx context.Context, patientId string, images []synthesis.ImagePart) (*dto.SynthesizeNoteResponse, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("at least one document image is required")
	}

	patient, err := s.docStore.Load(ctx, patientId)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, nil // Not found
	}

	raw, err := s.synthClient.Synthesize(ctx, images)
	if err != nil {
		s.logger.Error("SYNTHESIS", "Synthesis call failed", map[string]interface{}{
			"patient_id": patientId,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}

	record, err := synthesis.ParseRecord(raw)
	if err != nil {
		s.logger.Error("SYNTHESIS", "Unparseable synthesis response", map[string]interface{}{
			"patient_id": patientId,
			"error":      err.Error(),
		})
		return nil, err
	}

	record.PatientId = patientId
	if record.DateOfService == "" {
		record.DateOfService = time.Now().Format("2006-01-02")
	}
	if record.QuickSummary == "" {
		record.QuickSummary = "N/A"
	}

	note := entity.PatientNote{
		DateOfService: record.DateOfService,
		Summary:       record.QuickSummary,
		RawData:       record,
	}
	patient.Notes = append(patient.Notes, note)

	if err := s.docStore.Save(ctx, patient); err != nil {
		return nil, err
	}

	s.logger.Info("SYNTHESIS", "Note synthesized", map[string]interface{}{
		"patient_id":   patientId,
		"problems":     len(record.Problems),
		"medications":  len(record.Medications),
		"note_count":   len(patient.Notes),
		"date_service": record.DateOfService,
	})

	s.publishRecordChange(ctx, patientId, &record)

	return &dto.SynthesizeNoteResponse{
		PatientId: patientId,
		Note: dto.PatientNoteResponse{
			DateOfService: note.DateOfService,
			Summary:       note.Summary,
			RawData:       note.RawData,
		},
		Record: record,
	}, nil
}

// GetNotes returns the patient's note history, oldest first.
func (s *synthesisService) GetNotes(ctx context.Context, patientId string) ([]*dto.PatientNoteResponse, error) {
	patient, err := s.docStore.Load(ctx, patientId)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, nil // Not found
	}

	res := make([]*dto.PatientNoteResponse, 0, len(patient.Notes))
	for _, note := range patient.Notes {
		res = append(res, &dto.PatientNoteResponse{
			DateOfService: note.DateOfService,
			Summary:       note.Summary,
			RawData:       note.RawData,
		})
	}
	return res, nil
}

func (s *synthesisService) publishRecordChange(ctx context.Context, patientId string, record *entity.ClinicalRecord) {
	msg := dto.RecordChangedMessage{
		PatientId:  patientId,
		Source:     "synthesis",
		Status:     "synthesized",
		Saved:      true,
		Record:     record,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("SYNTHESIS", "Failed to publish record change", map[string]interface{}{
			"patient_id": patientId,
			"error":      err.Error(),
		})
	}
}
