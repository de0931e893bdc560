package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageService канал сообщений переписки с живой лентой
type MessageService struct {
	conversations ConversationStore
	messages      MessageStore
	publisher     realtime.Publisher
	feed          realtime.Subscriber
	logger        *zap.Logger
}

func NewMessageService(
	conversations ConversationStore,
	messages MessageStore,
	publisher realtime.Publisher,
	feed realtime.Subscriber,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		conversations: conversations,
		messages:      messages,
		publisher:     publisher,
		feed:          feed,
		logger:        logger,
	}
}

// Send сохраняет сообщение и публикует его в ленту переписки.
// Ошибка публикации не отменяет отправку: сообщение уже сохранено и видно через List.
func (s *MessageService) Send(ctx context.Context, conversationID, senderAccountID uuid.UUID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is empty", model.ErrValidation)
	}
	if utf8.RuneCountInString(content) > model.MaxMessageLength {
		return nil, fmt.Errorf("%w: message longer than %d characters", model.ErrValidation, model.MaxMessageLength)
	}

	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", model.ErrNotFound, conversationID)
	}
	if !conversation.HasParty(senderAccountID) {
		return nil, fmt.Errorf("%w: not a party of conversation %s", model.ErrForbidden, conversationID)
	}

	msg := &model.Message{
		ConversationID:  conversationID,
		SenderAccountID: senderAccountID,
		Content:         content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	reportBestEffort(s.logger, "feed_message", s.publisher.Publish(ctx, realtime.MessageCreated(msg)),
		zap.String("message_id", msg.ID.String()))

	s.logger.Debug("Message sent",
		zap.String("conversation_id", conversationID.String()),
		zap.String("message_id", msg.ID.String()))

	return msg, nil
}

// List сообщения переписки по возрастанию времени создания; пустой срез, если сообщений нет
func (s *MessageService) List(ctx context.Context, conversationID uuid.UUID) ([]*model.Message, error) {
	messages, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	return messages, nil
}

// Subscribe подписывает обработчик на новые события переписки.
// Возвращённая функция отписки идемпотентна. Отставший подписчик отключается
// и последним получает EventFeedLagged.
func (s *MessageService) Subscribe(conversationID uuid.UUID, handler realtime.Handler) func() {
	return s.feed.Subscribe(conversationID, handler)
}
