package model

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID               uuid.UUID `json:"id"`
	StudentAccountID uuid.UUID `json:"student_account_id"`
	TutorAccountID   uuid.UUID `json:"tutor_account_id"`
	Subject          *string   `json:"subject,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasParty проверяет, участвует ли аккаунт в переписке
func (c *Conversation) HasParty(accountID uuid.UUID) bool {
	return c.StudentAccountID == accountID || c.TutorAccountID == accountID
}

// CounterpartOf возвращает второго участника переписки
func (c *Conversation) CounterpartOf(accountID uuid.UUID) uuid.UUID {
	if c.StudentAccountID == accountID {
		return c.TutorAccountID
	}
	return c.StudentAccountID
}

// SubjectLabel возвращает тему переписки или пустую строку
func (c *Conversation) SubjectLabel() string {
	if c.Subject == nil {
		return ""
	}
	return *c.Subject
}

// OtherParty собеседник с точки зрения смотрящего
type OtherParty struct {
	AccountID   uuid.UUID `json:"account_id"`
	DisplayName string    `json:"display_name"`
}

// ConversationSummary строка списка переписок
type ConversationSummary struct {
	ID            uuid.UUID  `json:"id"`
	Subject       string     `json:"subject"`
	OtherParty    OtherParty `json:"other_party"`
	LastMessage   *Message   `json:"last_message,omitempty"`
	MessageCount  int        `json:"message_count"`
	IncomingCount int        `json:"incoming_count"`
	CreatedAt     time.Time  `json:"created_at"`
}
