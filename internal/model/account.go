package model

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID             uuid.UUID `json:"id"`
	DisplayName    string    `json:"display_name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Year           int       `json:"year"`
	Department     string    `json:"department"`
	Preorientation *string   `json:"preorientation,omitempty"` // только для 2-го курса STPI
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
