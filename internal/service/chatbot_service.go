package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinical-synth-be/internal/constant"
	"clinical-synth-be/internal/dto"
	"clinical-synth-be/internal/entity"
	"clinical-synth-be/internal/pkg/logger"
	"clinical-synth-be/internal/repository/docstore"
	"clinical-synth-be/internal/repository/memory"
	"clinical-synth-be/internal/repository/specification"
	"clinical-synth-be/internal/repository/unitofwork"
	"clinical-synth-be/pkg/llm"
	"clinical-synth-be/pkg/record"
	"clinical-synth-be/pkg/store"

	"github.com/google/uuid"
)

type IChatbotService interface {
	SendChat(ctx context.Context, patientId string, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, patientId string, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	GetLatestChatHistory(ctx context.Context, patientId string) ([]*dto.GetChatHistoryResponse, error)
	GetAllSessions(ctx context.Context, patientId string) ([]*dto.GetAllSessionsResponse, error)
}

var (
	ErrChatSessionNotFound = errors.New("chat session not found")
	ErrEmptyChatMessage    = errors.New("chat message is empty")
)

type chatbotService struct {
	uowFactory       unitofwork.RepositoryFactory
	docStore         docstore.DocumentStore
	llmProvider      llm.LLMProvider
	sessionState     *memory.SessionStateRepository
	publisherService IPublisherService
	logger           logger.ILogger
	llmLogger        logger.ILogger
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	docStore docstore.DocumentStore,
	llmProvider llm.LLMProvider,
	sessionState *memory.SessionStateRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		uowFactory:       uowFactory,
		docStore:         docStore,
		llmProvider:      llmProvider,
		sessionState:     sessionState,
		publisherService: publisherService,
		logger:           log,
		llmLogger:        initLLMLogger(),
	}
}

// initLLMLogger creates a file-only logger for prompt/reply exchanges so
// transcripts stay out of the main application log.
func initLLMLogger() logger.ILogger {
	return logger.NewIsolatedLogger("logs/llm_chat.log")
}

func (s *chatbotService) SendChat(ctx context.Context, patientId string, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	// Whitespace-only input is rejected before anything is written
	chat := strings.TrimSpace(req.Chat)
	if chat == "" {
		return nil, ErrEmptyChatMessage
	}

	// 1. Load the patient chart
	patient, err := s.docStore.Load(ctx, patientId)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, nil // Not found
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 2. Resolve or create the session
	session, err := s.resolveSession(ctx, uow, patient, req.ChatSessionId)
	if err != nil {
		return nil, err
	}

	// 3. Persist the user message
	userMsg := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMsg); err != nil {
		return nil, err
	}

	// 4. Build the model history from the full transcript
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{SessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, llm.Message{Role: m.Role, Content: m.Chat})
	}

	// 5. Ask the model, with the current record pinned in the system context
	recordJSON := s.currentRecordJSON(patient)
	systemInstruction := fmt.Sprintf(constant.ChatSystemInstructionV1, patient.Name, recordJSON)

	// A model failure is part of the conversation, not an HTTP failure:
	// the error is persisted as an assistant message and returned normally.
	modelFailed := false
	reply, err := s.llmProvider.Chat(ctx, history, llm.WithSystemInstruction(systemInstruction))
	if err != nil {
		s.logger.Error("CHATBOT", "LLM call failed", map[string]interface{}{
			"patient_id":      patientId,
			"chat_session_id": session.Id,
			"error":           err.Error(),
		})
		reply = fmt.Sprintf("Error communicating with the assistant: %v", err)
		modelFailed = true
	}
	if !modelFailed && strings.TrimSpace(reply) == "" {
		reply = "_No response received._"
	}

	s.llmLogger.Info("LLM_EXCHANGE", "Chat turn", map[string]interface{}{
		"patient_id":      patientId,
		"chat_session_id": session.Id.String(),
		"prompt":          chat,
		"reply":           reply,
	})

	// 6. Persist the assistant reply
	replyMsg := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          reply,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &replyMsg); err != nil {
		return nil, err
	}

	// 7. Apply any embedded record directive
	var notice *dto.RecordChangeNotice
	if !modelFailed {
		notice = s.handleDirective(ctx, patient, session, reply)
	}

	s.touchSessionState(session, patientId)

	res := &dto.SendChatResponse{
		ChatSessionId: session.Id,
		Sent:          toChatResponseChat(&userMsg),
		Reply:         toChatResponseChat(&replyMsg),
		RecordChange:  notice,
	}
	if latest := patient.LatestNote(); latest != nil {
		rec := latest.RawData
		res.Record = &rec
	}
	if state, ok := s.sessionState.Get(session.Id.String()); ok {
		res.UnsavedChanges = state.Dirty
	}

	return res, nil
}

func (s *chatbotService) resolveSession(ctx context.Context, uow unitofwork.UnitOfWork, patient *entity.Patient, sessionId *uuid.UUID) (*entity.ChatSession, error) {
	if sessionId != nil {
		session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: *sessionId})
		if err != nil {
			return nil, err
		}
		if session == nil || session.PatientId != patient.Id {
			return nil, ErrChatSessionNotFound
		}
		return session, nil
	}

	session := entity.ChatSession{
		Id:        uuid.New(),
		PatientId: patient.Id,
		Title:     fmt.Sprintf("Chat with %s", patient.Name),
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	// Every new session opens with the assistant greeting
	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          fmt.Sprintf(constant.ChatGreetingV1, patient.Name, patient.Id),
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	return &session, nil
}

// handleDirective extracts, validates, and applies a modification directive
// from the assistant reply. Failures are turned into notices, never errors:
// the chat turn itself already succeeded.
func (s *chatbotService) handleDirective(ctx context.Context, patient *entity.Patient, session *entity.ChatSession, reply string) *dto.RecordChangeNotice {
	d, err := record.ExtractDirective(reply)
	if errors.Is(err, record.ErrNoDirective) {
		return nil
	}
	if errors.Is(err, record.ErrInvalidDirective) {
		return &dto.RecordChangeNotice{
			Status:  string(record.OutcomeInvalidFormat),
			Message: "The assistant suggested a change but it could not be read.",
		}
	}
	if !d.AutoApplicable() {
		return nil
	}

	latest := patient.LatestNote()
	if latest == nil {
		return &dto.RecordChangeNotice{
			Status:  string(record.OutcomeNotFound),
			Target:  d.Target,
			Message: "There is no record to modify yet. Upload a document first.",
		}
	}

	// Saved stays false until the change is actually applied and persisted
	newRec, outcome := record.Apply(latest.RawData, record.Action(d.Action), record.Target(d.Target), d.DecodeDetails())
	notice := &dto.RecordChangeNotice{
		Status:  string(outcome.Status),
		Target:  string(outcome.Target),
		Message: outcome.Message,
	}
	if !outcome.Changed() {
		return notice
	}

	// A list mutation stales the one-line summary; regenerate it before saving
	s.regenerateQuickSummary(ctx, &newRec)

	latest.RawData = newRec
	latest.Summary = newRec.QuickSummary

	saveErr := s.docStore.Save(ctx, patient)
	notice.Saved = saveErr == nil

	state := &store.SessionState{
		SessionID:    session.Id.String(),
		PatientID:    patient.Id,
		LastActivity: time.Now(),
	}
	if saveErr != nil {
		// The change stays applied in memory; the surface warns about it
		state.Dirty = true
		state.LastSaveError = saveErr.Error()
		s.logger.Error("CHATBOT", "Record change applied but not saved", map[string]interface{}{
			"patient_id":      patient.Id,
			"chat_session_id": session.Id,
			"error":           saveErr.Error(),
		})
	}
	s.sessionState.Save(state)

	s.publishRecordChange(ctx, patient.Id, session.Id, d, outcome, notice.Saved, &newRec)

	return notice
}

// regenerateQuickSummary asks the model for a fresh one-sentence summary of
// the mutated record. Best effort: on failure the stale summary stands.
func (s *chatbotService) regenerateQuickSummary(ctx context.Context, rec *entity.ClinicalRecord) {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return
	}

	summary, err := s.llmProvider.Generate(ctx, fmt.Sprintf(constant.SummaryRegenerationPromptV1, string(recordJSON)))
	if err != nil {
		s.logger.Warn("CHATBOT", "Quick summary regeneration failed", map[string]interface{}{
			"patient_id": rec.PatientId,
			"error":      err.Error(),
		})
		return
	}

	summary = strings.TrimSpace(summary)
	if summary != "" {
		rec.QuickSummary = summary
	}
}

func (s *chatbotService) publishRecordChange(ctx context.Context, patientId string, sessionId uuid.UUID, d *record.Directive, outcome record.Outcome, saved bool, rec *entity.ClinicalRecord) {
	msg := dto.RecordChangedMessage{
		PatientId:     patientId,
		ChatSessionId: sessionId.String(),
		Source:        "chat",
		Action:        d.Action,
		Target:        d.Target,
		Status:        string(outcome.Status),
		Saved:         saved,
		Record:        rec,
		OccurredAt:    time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("CHATBOT", "Failed to publish record change", map[string]interface{}{
			"patient_id": patientId,
			"error":      err.Error(),
		})
	}
}

func (s *chatbotService) touchSessionState(session *entity.ChatSession, patientId string) {
	state, ok := s.sessionState.Get(session.Id.String())
	if !ok {
		state = &store.SessionState{
			SessionID: session.Id.String(),
			PatientID: patientId,
		}
	}
	state.LastActivity = time.Now()
	s.sessionState.Save(state)
}

func (s *chatbotService) currentRecordJSON(patient *entity.Patient) string {
	latest := patient.LatestNote()
	if latest == nil {
		return "{}"
	}
	recordJSON, err := json.Marshal(latest.RawData)
	if err != nil {
		return "{}"
	}
	return string(recordJSON)
}

func (s *chatbotService) GetChatHistory(ctx context.Context, patientId string, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil || session.PatientId != patientId {
		return nil, ErrChatSessionNotFound
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.GetChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Chat:      m.Chat,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}

// GetLatestChatHistory returns the transcript of the patient's most recent
// session, or an empty transcript when no conversation has started yet.
func (s *chatbotService) GetLatestChatHistory(ctx context.Context, patientId string) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.BySessionPatientID{PatientID: patientId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 1},
	)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return []*dto.GetChatHistoryResponse{}, nil
	}

	return s.GetChatHistory(ctx, patientId, sessions[0].Id)
}

func (s *chatbotService) GetAllSessions(ctx context.Context, patientId string) ([]*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.BySessionPatientID{PatientID: patientId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, sess := range sessions {
		res = append(res, &dto.GetAllSessionsResponse{
			Id:        sess.Id,
			Title:     sess.Title,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		})
	}
	return res, nil
}

func toChatResponseChat(m *entity.ChatMessage) *dto.SendChatResponseChat {
	return &dto.SendChatResponseChat{
		Id:        m.Id,
		Chat:      m.Chat,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
