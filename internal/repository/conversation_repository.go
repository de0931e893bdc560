package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const conversationColumns = `id, student_account_id, tutor_account_id, subject, created_at`

type ConversationRepository struct {
	*base.Repository
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{Repository: base.NewRepository(pool)}
}

func scanConversation(row pgx.Row) (*model.Conversation, error) {
	var conv model.Conversation
	err := row.Scan(
		&conv.ID,
		&conv.StudentAccountID,
		&conv.TutorAccountID,
		&conv.Subject,
		&conv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateIfAbsent атомарно создаёт переписку для пары (ученик, репетитор).
// Если переписка уже есть, возвращает существующую без изменений и created=false.
func (r *ConversationRepository) CreateIfAbsent(ctx context.Context, studentAccountID, tutorAccountID uuid.UUID, subject *string) (*model.Conversation, bool, error) {
	insert := `
		INSERT INTO conversations (student_account_id, tutor_account_id, subject)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_account_id, tutor_account_id) DO NOTHING
		RETURNING ` + conversationColumns

	conv, err := scanConversation(r.QueryRow(ctx, insert, studentAccountID, tutorAccountID, subject))
	if err == nil {
		return conv, true, nil
	}
	if !base.IsNotFound(err) {
		if base.IsForeignKeyViolation(err) {
			return nil, false, base.Wrap("create conversation", model.ErrNotFound)
		}
		return nil, false, base.Wrap("create conversation", err)
	}

	// ON CONFLICT DO NOTHING ничего не вернул: переписка уже существует
	conv, err = r.GetByPair(ctx, studentAccountID, tutorAccountID)
	if err != nil {
		return nil, false, err
	}
	if conv == nil {
		return nil, false, base.Wrap("create conversation", model.ErrConflict)
	}

	return conv, false, nil
}

// GetByID получает переписку по ID
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	conv, err := scanConversation(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("get conversation by id", err)
	}

	return conv, nil
}

// GetByPair получает переписку по паре участников
func (r *ConversationRepository) GetByPair(ctx context.Context, studentAccountID, tutorAccountID uuid.UUID) (*model.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE student_account_id = $1 AND tutor_account_id = $2
	`

	conv, err := scanConversation(r.QueryRow(ctx, query, studentAccountID, tutorAccountID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("get conversation by pair", err)
	}

	return conv, nil
}

// ListSummaries переписки аккаунта с собеседником и последним сообщением, новые первыми
func (r *ConversationRepository) ListSummaries(ctx context.Context, accountID uuid.UUID) ([]model.ConversationSummary, error) {
	query := `
		SELECT c.id, COALESCE(c.subject, ''), c.created_at,
		       o.id, o.display_name,
		       lm.id, lm.sender_account_id, lm.content, lm.created_at,
		       cnt.total, cnt.incoming
		FROM conversations c
		JOIN accounts o ON o.id = CASE WHEN c.student_account_id = $1 THEN c.tutor_account_id ELSE c.student_account_id END
		LEFT JOIN LATERAL (
			SELECT m.id, m.sender_account_id, m.content, m.created_at
			FROM messages m
			WHERE m.conversation_id = c.id
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT 1
		) lm ON true
		CROSS JOIN LATERAL (
			SELECT COUNT(*) AS total,
			       COUNT(*) FILTER (WHERE m.sender_account_id <> $1) AS incoming
			FROM messages m
			WHERE m.conversation_id = c.id
		) cnt
		WHERE c.student_account_id = $1 OR c.tutor_account_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.Query(ctx, query, accountID)
	if err != nil {
		return nil, base.Wrap("list conversation summaries", err)
	}
	defer rows.Close()

	summaries := []model.ConversationSummary{}
	for rows.Next() {
		var (
			s          model.ConversationSummary
			lastID     *uuid.UUID
			lastSender *uuid.UUID
			lastText   *string
			lastAt     *time.Time
		)
		err := rows.Scan(
			&s.ID, &s.Subject, &s.CreatedAt,
			&s.OtherParty.AccountID, &s.OtherParty.DisplayName,
			&lastID, &lastSender, &lastText, &lastAt,
			&s.MessageCount, &s.IncomingCount,
		)
		if err != nil {
			return nil, base.Wrap("scan conversation summary", err)
		}

		if lastID != nil {
			s.LastMessage = &model.Message{
				ID:              *lastID,
				ConversationID:  s.ID,
				SenderAccountID: *lastSender,
				Content:         *lastText,
				CreatedAt:       *lastAt,
			}
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, base.Wrap("iterate conversation summaries", err)
	}

	return summaries, nil
}
