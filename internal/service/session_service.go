package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	proposalLayout = "2006-01-02T15:04"

	noteAccepted  = "accepted the appointment request"
	noteDeclined  = "declined the appointment request"
	noteCancelled = "cancelled the appointment request"
)

type proposeInput struct {
	Subject         model.Subject
	ScheduledAt     time.Time `validate:"required"`
	DurationMinutes int       `validate:"gt=0,lte=720"`
}

// SessionService согласование занятий: pending -> accepted | declined.
// Побочные эффекты (строка в чате, событие ленты, уведомление) логируются
// при ошибке и не влияют на результат.
type SessionService struct {
	conversations ConversationStore
	roles         RoleStore
	sessions      SessionStore
	messages      MessageSender
	publisher     realtime.Publisher
	alerter       Alerter
	logger        *zap.Logger
}

func NewSessionService(
	conversations ConversationStore,
	roles RoleStore,
	sessions SessionStore,
	messages MessageSender,
	publisher realtime.Publisher,
	alerter Alerter,
	logger *zap.Logger,
) *SessionService {
	if alerter == nil {
		alerter = NopAlerter{}
	}
	return &SessionService{
		conversations: conversations,
		roles:         roles,
		sessions:      sessions,
		messages:      messages,
		publisher:     publisher,
		alerter:       alerter,
		logger:        logger,
	}
}

// Propose создаёт предложение занятия в статусе pending от имени участника переписки
func (s *SessionService) Propose(
	ctx context.Context,
	conversationID, proposerAccountID uuid.UUID,
	subject model.Subject,
	scheduledAt time.Time,
	durationMinutes int,
) (*model.SessionRequest, error) {
	subject.Name = strings.TrimSpace(subject.Name)
	if scheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: session date and time are required", model.ErrValidation)
	}
	if err := validateStruct(proposeInput{Subject: subject, ScheduledAt: scheduledAt, DurationMinutes: durationMinutes}); err != nil {
		return nil, err
	}

	conversation, err := s.partyConversation(ctx, conversationID, proposerAccountID)
	if err != nil {
		return nil, err
	}

	student, err := s.roles.GetStudentByAccount(ctx, conversation.StudentAccountID)
	if err != nil {
		return nil, fmt.Errorf("get student record: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student record for account %s", model.ErrNotFound, conversation.StudentAccountID)
	}

	tutor, err := s.roles.GetTutorByAccount(ctx, conversation.TutorAccountID)
	if err != nil {
		return nil, fmt.Errorf("get tutor record: %w", err)
	}
	if tutor == nil {
		return nil, fmt.Errorf("%w: tutor record for account %s", model.ErrNotFound, conversation.TutorAccountID)
	}
	if !tutor.Subjects.Contains(subject) {
		return nil, fmt.Errorf("%w: tutor does not teach %s (%s, year %d)", model.ErrValidation, subject.Name, subject.Department, subject.Year)
	}

	req := &model.SessionRequest{
		ConversationID:    conversation.ID,
		StudentRecordID:   student.ID,
		TutorRecordID:     tutor.ID,
		ProposerAccountID: proposerAccountID,
		Subject:           subject,
		ScheduledAt:       scheduledAt,
		DurationMinutes:   durationMinutes,
		Status:            model.SessionStatusPending,
	}
	if err := s.sessions.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create session request: %w", err)
	}

	s.logger.Info("Session proposed",
		zap.String("session_request_id", req.ID.String()),
		zap.String("conversation_id", conversation.ID.String()),
		zap.String("proposer_account_id", proposerAccountID.String()),
		zap.Time("scheduled_at", scheduledAt))

	note := fmt.Sprintf("requested an appointment on %s for %d minutes", scheduledAt.Format(proposalLayout), durationMinutes)
	s.sideEffects(ctx, conversation, req, proposerAccountID, note, realtime.SessionCreated(req))

	return req, nil
}

// Respond принимает или отклоняет предложение. Принять может только вторая сторона;
// автор предложения может его лишь отклонить. Решение окончательное.
func (s *SessionService) Respond(ctx context.Context, sessionRequestID, responderAccountID uuid.UUID, accepted bool) (*model.SessionResponse, error) {
	status, note := model.SessionStatusDeclined, noteDeclined
	if accepted {
		status, note = model.SessionStatusAccepted, noteAccepted
	}

	req, err := s.resolve(ctx, sessionRequestID, responderAccountID, status, note, func(req *model.SessionRequest) error {
		if accepted && req.ProposerAccountID == responderAccountID {
			return fmt.Errorf("%w: cannot accept own session request", model.ErrForbidden)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.SessionResponse{SessionRequestID: req.ID, Status: req.Status}, nil
}

// Cancel отзыв предложения автором. Отдельного статуса нет: переход тот же, что у отказа.
func (s *SessionService) Cancel(ctx context.Context, sessionRequestID, cancellerAccountID uuid.UUID) (*model.SessionResponse, error) {
	req, err := s.resolve(ctx, sessionRequestID, cancellerAccountID, model.SessionStatusDeclined, noteCancelled, func(req *model.SessionRequest) error {
		if req.ProposerAccountID != cancellerAccountID {
			return fmt.Errorf("%w: only the proposer can cancel a session request", model.ErrForbidden)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.SessionResponse{SessionRequestID: req.ID, Status: req.Status}, nil
}

func (s *SessionService) resolve(
	ctx context.Context,
	sessionRequestID, actorAccountID uuid.UUID,
	status model.SessionStatus,
	note string,
	allowed func(*model.SessionRequest) error,
) (*model.SessionRequest, error) {
	req, err := s.sessions.GetByID(ctx, sessionRequestID)
	if err != nil {
		return nil, fmt.Errorf("get session request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: session request %s", model.ErrNotFound, sessionRequestID)
	}

	conversation, err := s.partyConversation(ctx, req.ConversationID, actorAccountID)
	if err != nil {
		return nil, err
	}

	if !req.IsPending() {
		return nil, fmt.Errorf("%w: session request is already %s", model.ErrInvalidState, req.Status)
	}
	if err := allowed(req); err != nil {
		return nil, err
	}

	updated, err := s.sessions.TransitionFromPending(ctx, req.ID, status, actorAccountID)
	if err != nil {
		return nil, fmt.Errorf("update session request: %w", err)
	}
	if updated == nil {
		// конкурентный ответ успел раньше
		return nil, fmt.Errorf("%w: session request is no longer pending", model.ErrInvalidState)
	}

	s.logger.Info("Session request resolved",
		zap.String("session_request_id", updated.ID.String()),
		zap.String("status", string(updated.Status)),
		zap.String("responder_account_id", actorAccountID.String()))

	s.sideEffects(ctx, conversation, updated, actorAccountID, note, realtime.SessionUpdated(updated))

	return updated, nil
}

// ListForConversation предложения между участниками переписки по дате занятия.
// Если у стороны нет ролевой записи, результат пустой.
func (s *SessionService) ListForConversation(ctx context.Context, conversationID uuid.UUID) ([]*model.SessionRequest, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", model.ErrNotFound, conversationID)
	}

	empty := []*model.SessionRequest{}

	student, err := s.roles.GetStudentByAccount(ctx, conversation.StudentAccountID)
	if err != nil || student == nil {
		s.logger.Warn("Student record unavailable, no sessions listed",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
		return empty, nil
	}

	tutor, err := s.roles.GetTutorByAccount(ctx, conversation.TutorAccountID)
	if err != nil || tutor == nil {
		s.logger.Warn("Tutor record unavailable, no sessions listed",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
		return empty, nil
	}

	requests, err := s.sessions.ListByRecords(ctx, student.ID, tutor.ID)
	if err != nil {
		return nil, fmt.Errorf("list session requests: %w", err)
	}
	if requests == nil {
		return empty, nil
	}

	return requests, nil
}

// ViewFor отображение предложения для смотрящего
func (s *SessionService) ViewFor(req *model.SessionRequest, viewerAccountID uuid.UUID) model.SessionView {
	return model.ViewFor(req, viewerAccountID)
}

// SendReminders напоминает обеим сторонам о принятых занятиях, начинающихся в
// ближайшие lead. Каждое занятие напоминается один раз.
func (s *SessionService) SendReminders(ctx context.Context, now time.Time, lead time.Duration) (int, error) {
	due, err := s.sessions.DueForReminder(ctx, now, now.Add(lead))
	if err != nil {
		return 0, fmt.Errorf("get sessions due for reminder: %w", err)
	}

	sent := 0
	for _, reminder := range due {
		req := reminder.Request
		text := fmt.Sprintf("Reminder: %s session at %s (%d minutes)",
			req.Subject.Name, req.ScheduledAt.Format(proposalLayout), req.DurationMinutes)

		for _, accountID := range []uuid.UUID{reminder.StudentAccountID, reminder.TutorAccountID} {
			reportBestEffort(s.logger, "reminder", s.alerter.Alert(ctx, accountID, text),
				zap.String("session_request_id", req.ID.String()),
				zap.String("account_id", accountID.String()))
		}

		if err := s.sessions.MarkReminded(ctx, req.ID); err != nil {
			return sent, fmt.Errorf("mark reminded: %w", err)
		}
		sent++
	}

	return sent, nil
}

func (s *SessionService) partyConversation(ctx context.Context, conversationID, accountID uuid.UUID) (*model.Conversation, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", model.ErrNotFound, conversationID)
	}
	if !conversation.HasParty(accountID) {
		return nil, fmt.Errorf("%w: not a party of conversation %s", model.ErrForbidden, conversationID)
	}
	return conversation, nil
}

// sideEffects строка в чате от имени автора действия, событие ленты и уведомление второй стороне
func (s *SessionService) sideEffects(
	ctx context.Context,
	conversation *model.Conversation,
	req *model.SessionRequest,
	actorAccountID uuid.UUID,
	note string,
	evt realtime.Event,
) {
	fields := []zap.Field{
		zap.String("session_request_id", req.ID.String()),
		zap.String("conversation_id", conversation.ID.String()),
	}

	_, err := s.messages.Send(ctx, conversation.ID, actorAccountID, note)
	reportBestEffort(s.logger, "chat_note", err, fields...)

	reportBestEffort(s.logger, "feed_session", s.publisher.Publish(ctx, evt), fields...)

	alert := fmt.Sprintf("%s: %s", req.Subject.Name, note)
	counterpart := conversation.CounterpartOf(actorAccountID)
	if pa, ok := s.alerter.(ProposalAlerter); ok && req.IsPending() {
		err = pa.AlertProposal(ctx, counterpart, alert, req.ID)
	} else {
		err = s.alerter.Alert(ctx, counterpart, alert)
	}
	reportBestEffort(s.logger, "alert", err, fields...)
}
