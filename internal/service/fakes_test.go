package service

import (
	"context"
	"errors"
	"sort"

	"clinical-synth-be/internal/entity"
	"clinical-synth-be/internal/repository/contract"
	"clinical-synth-be/internal/repository/docstore"
	"clinical-synth-be/internal/repository/specification"
	"clinical-synth-be/internal/repository/unitofwork"
	"clinical-synth-be/pkg/llm"

	"github.com/google/uuid"
)

// --- Logger ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// --- Document store ---

type fakeDocStore struct {
	patients  map[string]*entity.Patient
	saveErr   error
	saveCalls int
}

func newFakeDocStore(patients ...*entity.Patient) *fakeDocStore {
	s := &fakeDocStore{patients: make(map[string]*entity.Patient)}
	for _, p := range patients {
		cp := *p
		s.patients[p.Id] = &cp
	}
	return s
}

var _ docstore.DocumentStore = (*fakeDocStore)(nil)

func (s *fakeDocStore) LoadAll(ctx context.Context) ([]*entity.Patient, error) {
	out := make([]*entity.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeDocStore) Load(ctx context.Context, patientID string) (*entity.Patient, error) {
	p, ok := s.patients[patientID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Notes = append([]entity.PatientNote(nil), p.Notes...)
	return &cp, nil
}

func (s *fakeDocStore) Save(ctx context.Context, patient *entity.Patient) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *patient
	cp.Notes = append([]entity.PatientNote(nil), patient.Notes...)
	s.patients[patient.Id] = &cp
	return nil
}

func (s *fakeDocStore) Create(ctx context.Context, patient *entity.Patient) error {
	if _, exists := s.patients[patient.Id]; exists {
		return errors.New("duplicate id")
	}
	cp := *patient
	s.patients[patient.Id] = &cp
	return nil
}

func (s *fakeDocStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.patients)), nil
}

// --- LLM provider ---

type fakeLLM struct {
	replies []string
	next    int
	chatErr error
	lastSys string
	prompts []string
}

var _ llm.LLMProvider = (*fakeLLM)(nil)

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}
	f.lastSys = options.SystemInstruction

	if f.chatErr != nil {
		return "", f.chatErr
	}
	if f.next >= len(f.replies) {
		return "I have nothing further.", nil
	}
	reply := f.replies[f.next]
	f.next++
	return reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// --- Publisher ---

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

// --- Chat repositories ---

type fakeChatSessionRepo struct {
	sessions map[uuid.UUID]*entity.ChatSession
}

var _ contract.ChatSessionRepository = (*fakeChatSessionRepo)(nil)

func (r *fakeChatSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	cp := *session
	r.sessions[session.Id] = &cp
	return nil
}

func (r *fakeChatSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	cp := *session
	r.sessions[session.Id] = &cp
	return nil
}

func (r *fakeChatSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeChatSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if s, found := r.sessions[byID.ID]; found {
				cp := *s
				return &cp, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeChatSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var patientID string
	for _, spec := range specs {
		if byPatient, ok := spec.(specification.BySessionPatientID); ok {
			patientID = byPatient.PatientID
		}
	}
	out := make([]*entity.ChatSession, 0)
	for _, s := range r.sessions {
		if patientID == "" || s.PatientId == patientID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeChatSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.sessions)), nil
}

type fakeChatMessageRepo struct {
	messages []*entity.ChatMessage
}

var _ contract.ChatMessageRepository = (*fakeChatMessageRepo)(nil)

func (r *fakeChatMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	cp := *message
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *fakeChatMessageRepo) CreateBatch(ctx context.Context, messages []*entity.ChatMessage) error {
	for _, m := range messages {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeChatMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var sessionID *uuid.UUID
	for _, spec := range specs {
		if bySession, ok := spec.(specification.ByChatSessionID); ok {
			id := bySession.SessionID
			sessionID = &id
		}
	}
	out := make([]*entity.ChatMessage, 0)
	for _, m := range r.messages {
		if sessionID == nil || m.ChatSessionId == *sessionID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeChatMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.messages)), nil
}

// --- Unit of work ---

type fakeUow struct {
	sessions *fakeChatSessionRepo
	messages *fakeChatMessageRepo
}

var _ unitofwork.UnitOfWork = (*fakeUow)(nil)

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) PatientDocumentRepository() contract.PatientDocumentRepository { return nil }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository         { return u.sessions }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository         { return u.messages }

type fakeUowFactory struct {
	uow *fakeUow
}

func newFakeUowFactory() *fakeUowFactory {
	return &fakeUowFactory{
		uow: &fakeUow{
			sessions: &fakeChatSessionRepo{sessions: make(map[uuid.UUID]*entity.ChatSession)},
			messages: &fakeChatMessageRepo{},
		},
	}
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}
