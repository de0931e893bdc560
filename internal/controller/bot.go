package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_hub/internal/controller/callbacks"
	"github.com/Freeeeeet/tutoring_hub/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type linkCodeIssuer interface {
	IssueTelegramCode(ctx context.Context, chatID int64) (string, error)
}

// BotController Telegram-бот для уведомлений: выдаёт одноразовый код привязки
// чата к аккаунту и принимает ответы на предложения занятий с inline-кнопок
type BotController struct {
	bot       *bot.Bot
	links     linkCodeIssuer
	callbacks *callbacks.Handler
	logger    *zap.Logger
}

func NewBotController(botInstance *bot.Bot, links linkCodeIssuer, callbackHandler *callbacks.Handler, logger *zap.Logger) *BotController {
	return &BotController{
		bot:       botInstance,
		links:     links,
		callbacks: callbackHandler,
		logger:    logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, callbacks.SessionPrefix, bot.MatchTypePrefix, c.callbacks.Handle)

	return c.setCommands(ctx)
}

func (c *BotController) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	text := c.startText(ctx, chatID)

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		c.logger.Error("Failed to send start message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (c *BotController) startText(ctx context.Context, chatID int64) string {
	code, err := c.links.IssueTelegramCode(ctx, chatID)
	if err != nil {
		c.logger.Error("Failed to issue link code", zap.Int64("chat_id", chatID), zap.Error(err))
		return "❌ Could not create a link code, please send /start again later."
	}

	return fmt.Sprintf(
		"👋 Hi!\n\n"+
			"Your link code is %s.\n"+
			"Enter it in your tutoring profile within %d minutes to get notified about session requests and reminders.",
		code, int(service.TelegramCodeTTL.Minutes()),
	)
}

func (c *BotController) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := "/start - get a code to link this chat to your account\n" +
		"Notifications arrive here when someone proposes, accepts or declines a session.\n" +
		"Use the buttons under a proposal to answer it right here."

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: update.Message.Chat.ID, Text: text}); err != nil {
		c.logger.Error("Failed to send help message", zap.Error(err))
	}
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Link this chat"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
