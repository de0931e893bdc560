package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength ограничение длины сообщения в рунах
const MaxMessageLength = 2000

// Message неизменяемое сообщение переписки
type Message struct {
	ID              uuid.UUID `json:"id"`
	ConversationID  uuid.UUID `json:"conversation_id"`
	SenderAccountID uuid.UUID `json:"sender_account_id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
}
