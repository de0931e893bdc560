package callbacks

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Callback data: префикс + UUID предложения
const (
	SessionPrefix  = "session_"
	AcceptSession  = "session_accept:"  // session_accept:<uuid>
	DeclineSession = "session_decline:" // session_decline:<uuid>
)

// API часть Telegram Bot API, нужная обработчику
type API interface {
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	EditMessageReplyMarkup(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error)
}

type accountLookup interface {
	GetByTelegramChatID(ctx context.Context, chatID int64) (*model.Account, error)
}

type sessionResponder interface {
	Respond(ctx context.Context, sessionRequestID, responderAccountID uuid.UUID, accepted bool) (*model.SessionResponse, error)
}

// Handler отвечает на нажатия кнопок под уведомлениями о предложенных занятиях
type Handler struct {
	accounts accountLookup
	sessions sessionResponder
	logger   *zap.Logger
}

func NewHandler(accounts accountLookup, sessions sessionResponder, logger *zap.Logger) *Handler {
	return &Handler{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

// Handle адаптер под сигнатуру обработчиков go-telegram/bot
func (h *Handler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	h.Route(ctx, b, update.CallbackQuery)
}

// Route распределяет callback query по обработчикам
func (h *Handler) Route(ctx context.Context, api API, callback *models.CallbackQuery) {
	data := callback.Data

	h.logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case strings.HasPrefix(data, AcceptSession):
		h.handleRespond(ctx, api, callback, strings.TrimPrefix(data, AcceptSession), true)
	case strings.HasPrefix(data, DeclineSession):
		h.handleRespond(ctx, api, callback, strings.TrimPrefix(data, DeclineSession), false)
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		AnswerCallback(ctx, api, callback.ID, ErrorMessage(ErrInvalidFormat))
	}
}

func (h *Handler) handleRespond(ctx context.Context, api API, callback *models.CallbackQuery, rawID string, accepted bool) {
	sessionRequestID, err := uuid.Parse(rawID)
	if err != nil {
		AnswerCallbackAlert(ctx, api, callback.ID, ErrorMessage(ErrInvalidFormat))
		return
	}

	resp, err := h.respond(ctx, chatIDOf(callback), sessionRequestID, accepted)
	if err != nil {
		h.logger.Warn("Failed to respond from telegram",
			zap.String("session_request_id", sessionRequestID.String()),
			zap.Error(err))
		AnswerCallbackAlert(ctx, api, callback.ID, ErrorMessage(err))
		return
	}

	text := "✅ Session accepted"
	if resp.Status == model.SessionStatusDeclined {
		text = "❌ Session declined"
	}
	AnswerCallback(ctx, api, callback.ID, text)

	// кнопки больше не нужны
	if msg := GetMessageFromCallback(callback); msg != nil {
		if _, err := api.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			ReplyMarkup: Empty(),
		}); err != nil {
			h.logger.Debug("Failed to clear keyboard", zap.Error(err))
		}
	}
}

func (h *Handler) respond(ctx context.Context, chatID int64, sessionRequestID uuid.UUID, accepted bool) (*model.SessionResponse, error) {
	account, err := h.accounts.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get account by chat: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotLinked
	}

	return h.sessions.Respond(ctx, sessionRequestID, account.ID, accepted)
}

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, api API, callbackID string, text string) {
	api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, api API, callbackID string, text string) {
	api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	return callback.Message.Message
}

// chatIDOf чат, к которому привязан аккаунт; для личных чатов совпадает с ID пользователя
func chatIDOf(callback *models.CallbackQuery) int64 {
	if msg := GetMessageFromCallback(callback); msg != nil {
		return msg.Chat.ID
	}
	return callback.From.ID
}
