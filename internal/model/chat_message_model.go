package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	Chat          string    `gorm:"column:chat;not null"`
	Role          string    `gorm:"column:role;not null"`
	ChatSessionId uuid.UUID `gorm:"column:chat_session_id;not null;index"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
