package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusPending  SessionStatus = "pending"  // Ожидает ответа второй стороны
	SessionStatusAccepted SessionStatus = "accepted" // Принята
	SessionStatusDeclined SessionStatus = "declined" // Отклонена или отменена
)

// IsTerminal из accepted и declined переходов нет
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusAccepted || s == SessionStatusDeclined
}

// SessionRequest предложенное занятие
type SessionRequest struct {
	ID                uuid.UUID     `json:"id"`
	ConversationID    uuid.UUID     `json:"conversation_id"`
	StudentRecordID   uuid.UUID     `json:"student_record_id"`
	TutorRecordID     uuid.UUID     `json:"tutor_record_id"`
	ProposerAccountID uuid.UUID     `json:"proposer_account_id"`
	Subject           Subject       `json:"subject"`
	ScheduledAt       time.Time     `json:"scheduled_at"`
	DurationMinutes   int           `json:"duration_minutes"`
	Status            SessionStatus `json:"status"`
	RespondedBy       *uuid.UUID    `json:"responded_by,omitempty"`
	RespondedAt       *time.Time    `json:"responded_at,omitempty"`
	RemindedAt        *time.Time    `json:"-"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// IsPending checks if request still awaits an answer
func (r *SessionRequest) IsPending() bool {
	return r.Status == SessionStatusPending
}

// EndsAt время окончания занятия
func (r *SessionRequest) EndsAt() time.Time {
	return r.ScheduledAt.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// SessionResponse результат ответа на предложение
type SessionResponse struct {
	SessionRequestID uuid.UUID     `json:"session_request_id"`
	Status           SessionStatus `json:"status"`
}

// SessionView отображение предложения для конкретного участника.
// Вычисляется по сохранённому ProposerAccountID.
type SessionView struct {
	*SessionRequest
	IsProposer bool `json:"is_proposer"`
	CanRespond bool `json:"can_respond"`
	CanCancel  bool `json:"can_cancel"`
}

// ViewFor строит отображение предложения для смотрящего аккаунта
func ViewFor(req *SessionRequest, viewerAccountID uuid.UUID) SessionView {
	isProposer := req.ProposerAccountID == viewerAccountID
	return SessionView{
		SessionRequest: req,
		IsProposer:     isProposer,
		CanRespond:     req.IsPending() && !isProposer,
		CanCancel:      req.IsPending() && isProposer,
	}
}

// SessionReminder данные для напоминания о скором занятии
type SessionReminder struct {
	Request          *SessionRequest
	StudentAccountID uuid.UUID
	TutorAccountID   uuid.UUID
}
