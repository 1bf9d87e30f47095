package dto

import (
	"time"

	"clinical-synth-be/internal/entity"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	ChatSessionId *uuid.UUID `json:"chat_session_id,omitempty"`
	Chat          string     `json:"chat" validate:"required,max=4000"`
}

type SendChatResponseChat struct {
	Id        uuid.UUID `json:"id"`
	Chat      string    `json:"chat"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordChangeNotice describes what a chat directive did to the record,
// mirroring the toast the user sees.
type RecordChangeNotice struct {
	Status  string `json:"status"`
	Target  string `json:"target"`
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}

type SendChatResponse struct {
	ChatSessionId  uuid.UUID              `json:"chat_session_id"`
	Sent           *SendChatResponseChat  `json:"sent"`
	Reply          *SendChatResponseChat  `json:"reply"`
	RecordChange   *RecordChangeNotice    `json:"record_change,omitempty"`
	Record         *entity.ClinicalRecord `json:"record,omitempty"`
	UnsavedChanges bool                   `json:"unsaved_changes"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	CreatedAt time.Time `json:"created_at"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
