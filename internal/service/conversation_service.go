package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationService реестр переписок: одна переписка на пару (ученик, репетитор)
type ConversationService struct {
	accounts      AccountStore
	conversations ConversationStore
	logger        *zap.Logger
}

func NewConversationService(accounts AccountStore, conversations ConversationStore, logger *zap.Logger) *ConversationService {
	return &ConversationService{
		accounts:      accounts,
		conversations: conversations,
		logger:        logger,
	}
}

// GetOrCreate возвращает переписку пары или создаёт её. Тема сохраняется только
// при первом контакте; повторные вызовы с другой темой её не меняют.
func (s *ConversationService) GetOrCreate(ctx context.Context, studentAccountID, tutorAccountID uuid.UUID, subjectLabel string) (*model.Conversation, error) {
	if studentAccountID == tutorAccountID {
		return nil, fmt.Errorf("%w: cannot start a conversation with yourself", model.ErrValidation)
	}

	accounts, err := s.accounts.GetByIDs(ctx, []uuid.UUID{studentAccountID, tutorAccountID})
	if err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}
	if len(accounts) != 2 {
		return nil, fmt.Errorf("%w: account", model.ErrNotFound)
	}

	var subject *string
	if label := strings.TrimSpace(subjectLabel); label != "" {
		subject = &label
	}

	conversation, created, err := s.conversations.CreateIfAbsent(ctx, studentAccountID, tutorAccountID, subject)
	if err != nil {
		return nil, fmt.Errorf("get or create conversation: %w", err)
	}

	if created {
		s.logger.Info("Conversation created",
			zap.String("conversation_id", conversation.ID.String()),
			zap.String("student_account_id", studentAccountID.String()),
			zap.String("tutor_account_id", tutorAccountID.String()))
	}

	return conversation, nil
}

func (s *ConversationService) Get(ctx context.Context, conversationID uuid.UUID) (*model.Conversation, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", model.ErrNotFound, conversationID)
	}
	return conversation, nil
}

// GetForParty как Get, но только для участника переписки
func (s *ConversationService) GetForParty(ctx context.Context, conversationID, accountID uuid.UUID) (*model.Conversation, error) {
	conversation, err := s.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParty(accountID) {
		return nil, fmt.Errorf("%w: not a party of conversation %s", model.ErrForbidden, conversationID)
	}
	return conversation, nil
}

// ResolveOtherParty: для ученика переписки собеседником будет репетитор, для остальных ученик
func (s *ConversationService) ResolveOtherParty(ctx context.Context, conversationID, viewerAccountID uuid.UUID) (model.OtherParty, error) {
	conversation, err := s.Get(ctx, conversationID)
	if err != nil {
		return model.OtherParty{}, err
	}

	otherID := conversation.CounterpartOf(viewerAccountID)
	account, err := s.accounts.GetByID(ctx, otherID)
	if err != nil {
		return model.OtherParty{}, fmt.Errorf("get counterpart account: %w", err)
	}
	if account == nil {
		return model.OtherParty{}, fmt.Errorf("%w: account %s", model.ErrNotFound, otherID)
	}

	return model.OtherParty{AccountID: account.ID, DisplayName: account.DisplayName}, nil
}

// ListForAccount переписки аккаунта, новые сверху
func (s *ConversationService) ListForAccount(ctx context.Context, accountID uuid.UUID) ([]model.ConversationSummary, error) {
	summaries, err := s.conversations.ListSummaries(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return summaries, nil
}
