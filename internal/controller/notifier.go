package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_hub/internal/controller/callbacks"
	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type accountLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

// Notifier отправляет уведомления в привязанный Telegram-чат аккаунта.
// Аккаунт без привязки пропускается без ошибки.
type Notifier struct {
	sender   messageSender
	accounts accountLookup
	logger   *zap.Logger
}

func NewNotifier(sender messageSender, accounts accountLookup, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		accounts: accounts,
		logger:   logger,
	}
}

func (n *Notifier) Alert(ctx context.Context, accountID uuid.UUID, text string) error {
	return n.send(ctx, accountID, text, nil)
}

// AlertProposal то же уведомление с кнопками принять/отклонить
func (n *Notifier) AlertProposal(ctx context.Context, accountID uuid.UUID, text string, sessionRequestID uuid.UUID) error {
	return n.send(ctx, accountID, text, callbacks.SessionKeyboard(sessionRequestID))
}

func (n *Notifier) send(ctx context.Context, accountID uuid.UUID, text string, markup models.ReplyMarkup) error {
	account, err := n.accounts.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	if account == nil || account.TelegramChatID == nil {
		return nil
	}

	if _, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      *account.TelegramChatID,
		Text:        text,
		ReplyMarkup: markup,
	}); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.logger.Debug("Telegram alert sent", zap.String("account_id", accountID.String()))
	return nil
}
