package service

import (
	"context"
	"errors"
	"testing"

	"clinical-synth-be/pkg/synthesis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynthClient struct {
	response string
	err      error
	images   []synthesis.ImagePart
}

func (f *fakeSynthClient) Synthesize(ctx context.Context, images []synthesis.ImagePart) (string, error) {
	f.images = images
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func onePage() []synthesis.ImagePart {
	return []synthesis.ImagePart{{MimeType: "image/png", Data: []byte("fake-png")}}
}

func TestSynthesizeNoteAppendsToHistory(t *testing.T) {
	store := newFakeDocStore(patientWithRecord())
	client := &fakeSynthClient{response: `{
		"patient_id": "ignored",
		"date_of_service": "2025-11-01",
		"quick_summary": "Diabetes added to problem list.",
		"problems": [{"standard_name": "Type 2 Diabetes", "standard_code_type": "SNOMED_CT", "standard_code_value": "44054006"}],
		"medications": [{"standard_name": "Metformin", "standard_code_type": "RxNorm", "standard_code_value": "6809"}]
	}`}
	publisher := &fakePublisher{}
	svc := NewSynthesisService(store, client, publisher, nopLogger{})

	res, err := svc.SynthesizeNote(context.Background(), "P-1001", onePage())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "P-1001", res.Record.PatientId)
	assert.Equal(t, "2025-11-01", res.Note.DateOfService)
	assert.Equal(t, "Diabetes added to problem list.", res.Note.Summary)

	// The note is appended, not replacing history
	saved, _ := store.Load(context.Background(), "P-1001")
	require.Len(t, saved.Notes, 2)
	assert.Equal(t, "Metformin", saved.LatestNote().RawData.Medications[0].StandardName)

	assert.Len(t, publisher.payloads, 1)
}

func TestSynthesizeNoteSummaryFallback(t *testing.T) {
	store := newFakeDocStore(patientWithRecord())
	client := &fakeSynthClient{response: `{
		"date_of_service": "2025-11-01",
		"quick_summary": "",
		"problems": [],
		"medications": []
	}`}
	svc := NewSynthesisService(store, client, &fakePublisher{}, nopLogger{})

	res, err := svc.SynthesizeNote(context.Background(), "P-1001", onePage())
	require.NoError(t, err)
	assert.Equal(t, "N/A", res.Note.Summary)
	assert.Equal(t, "N/A", res.Record.QuickSummary)
}

func TestGetNotes(t *testing.T) {
	store := newFakeDocStore(patientWithRecord())
	svc := NewSynthesisService(store, &fakeSynthClient{}, &fakePublisher{}, nopLogger{})

	notes, err := svc.GetNotes(context.Background(), "P-1001")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "2025-10-20", notes[0].DateOfService)

	missing, err := svc.GetNotes(context.Background(), "P-9999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSynthesizeNoteUnknownPatient(t *testing.T) {
	store := newFakeDocStore()
	svc := NewSynthesisService(store, &fakeSynthClient{response: "{}"}, &fakePublisher{}, nopLogger{})

	res, err := svc.SynthesizeNote(context.Background(), "P-9999", onePage())
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestSynthesizeNoteRequiresImages(t *testing.T) {
	store := newFakeDocStore(patientWithRecord())
	svc := NewSynthesisService(store, &fakeSynthClient{}, &fakePublisher{}, nopLogger{})

	_, err := svc.SynthesizeNote(context.Background(), "P-1001", nil)
	assert.Error(t, err)
}

func TestSynthesizeNoteUnparseableResponseFailsHard(t *testing.T) {
	store := newFakeDocStore(patientWithRecord())
	client := &fakeSynthClient{response: "I could not read the scan."}
	svc := NewSynthesisService(store, client, &fakePublisher{}, nopLogger{})

	_, err := svc.SynthesizeNote(context.Background(), "P-1001", onePage())
	assert.Error(t, err)

	// Nothing was appended
	saved, _ := store.Load(context.Background(), "P-1001")
	assert.Len(t, saved.Notes, 1)
}

func TestSynthesizeNoteProviderError(t *testing.T) {
	store := newFakeDocStore(patientWithRecord())
	client := &fakeSynthClient{err: errors.New("model overloaded")}
	svc := NewSynthesisService(store, client, &fakePublisher{}, nopLogger{})

	_, err := svc.SynthesizeNote(context.Background(), "P-1001", onePage())
	assert.ErrorContains(t, err, "synthesis failed")
}
