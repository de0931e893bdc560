package repository

import (
	"context"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	*base.Repository
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{Repository: base.NewRepository(pool)}
}

// Create добавляет сообщение; время создания проставляет база
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (conversation_id, sender_account_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, msg.ConversationID, msg.SenderAccountID, msg.Content).
		Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		if base.IsForeignKeyViolation(err) {
			return base.Wrap("create message", model.ErrNotFound)
		}
		return base.Wrap("create message", err)
	}

	return nil
}

// ListByConversation сообщения переписки по возрастанию времени создания
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*model.Message, error) {
	query := `
		SELECT id, conversation_id, sender_account_id, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.Query(ctx, query, conversationID)
	if err != nil {
		return nil, base.Wrap("list messages", err)
	}
	defer rows.Close()

	messages := []*model.Message{}
	for rows.Next() {
		var msg model.Message
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.SenderAccountID,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, base.Wrap("scan message", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, base.Wrap("iterate messages", err)
	}

	return messages, nil
}
