package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TelegramLinkRepository одноразовые коды, которыми бот подтверждает владение чатом
type TelegramLinkRepository struct {
	*base.Repository
}

func NewTelegramLinkRepository(pool *pgxpool.Pool) *TelegramLinkRepository {
	return &TelegramLinkRepository{Repository: base.NewRepository(pool)}
}

// CreateCode сохраняет код для чата; прежние коды этого чата и просроченные коды удаляются
func (r *TelegramLinkRepository) CreateCode(ctx context.Context, code string, chatID int64, expiresAt time.Time) error {
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM telegram_link_codes WHERE chat_id = $1 OR expires_at <= now()`,
			chatID,
		); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO telegram_link_codes (code, chat_id, expires_at) VALUES ($1, $2, $3)`,
			code, chatID, expiresAt,
		)
		return err
	})
	if err != nil {
		if base.IsUniqueViolation(err) {
			return base.Wrap("create telegram link code", model.ErrConflict)
		}
		return base.Wrap("create telegram link code", err)
	}

	return nil
}

// ConsumeCode удаляет код и возвращает его чат. Неизвестный или просроченный
// код даёт (nil, nil); повторно тот же код не срабатывает.
func (r *TelegramLinkRepository) ConsumeCode(ctx context.Context, code string, now time.Time) (*int64, error) {
	query := `DELETE FROM telegram_link_codes WHERE code = $1 RETURNING chat_id, expires_at`

	var (
		chatID    int64
		expiresAt time.Time
	)
	if err := r.QueryRow(ctx, query, code).Scan(&chatID, &expiresAt); err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("consume telegram link code", err)
	}

	if !expiresAt.After(now) {
		return nil, nil
	}

	return &chatID, nil
}
