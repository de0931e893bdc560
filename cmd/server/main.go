package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_hub/internal/app"
	"github.com/Freeeeeet/tutoring_hub/internal/auth"
	"github.com/Freeeeeet/tutoring_hub/internal/config"
	"github.com/Freeeeeet/tutoring_hub/internal/controller"
	"github.com/Freeeeeet/tutoring_hub/internal/controller/callbacks"
	"github.com/Freeeeeet/tutoring_hub/internal/controller/httpapi"
	"github.com/Freeeeeet/tutoring_hub/internal/ctxutil"
	"github.com/Freeeeeet/tutoring_hub/internal/observability"
	"github.com/Freeeeeet/tutoring_hub/internal/realtime"
	"github.com/Freeeeeet/tutoring_hub/internal/repository"
	"github.com/Freeeeeet/tutoring_hub/internal/service"
	"github.com/Freeeeeet/tutoring_hub/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctxutil.DefaultDBTimeout = cfg.DBTimeout

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Environment, cfg.Release)
	if err != nil {
		logger.Warn("Sentry disabled", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("✅ Connected to database", zap.String("environment", cfg.Environment))

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	_ = migrator.Close()

	// Repositories
	accountRepo := repository.NewAccountRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool, logger)
	roleRepo := repository.NewRoleRepository(pool)
	conversationRepo := repository.NewConversationRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	telegramLinkRepo := repository.NewTelegramLinkRepository(pool)

	// Live feed
	hub := realtime.NewHub(logger)
	var publisher realtime.Publisher = hub
	if cfg.FeedMode == config.FeedModePostgres {
		publisher = realtime.NewPgPublisher(pool, hub, logger)
		listener := realtime.NewListener(pool, hub, logger)
		go listener.Run(ctx)
	}
	logger.Info("Live feed configured", zap.String("mode", cfg.FeedMode))

	// Telegram
	var (
		tgBot   *bot.Bot
		alerter service.Alerter
	)
	if cfg.TelegramToken != "" {
		tgBot, err = bot.New(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}
		alerter = controller.NewNotifier(tgBot, accountRepo, logger)
	} else {
		logger.Info("TELEGRAM_TOKEN is empty, telegram notifications disabled")
	}

	// Services
	accountService := service.NewAccountService(accountRepo, telegramLinkRepo, logger)
	identityService := service.NewIdentityService(accountRepo, roleRepo, subjectRepo, logger)
	conversationService := service.NewConversationService(accountRepo, conversationRepo, logger)
	messageService := service.NewMessageService(conversationRepo, messageRepo, publisher, hub, logger)
	sessionService := service.NewSessionService(
		conversationRepo,
		roleRepo,
		sessionRepo,
		messageService,
		publisher,
		alerter,
		logger,
	)

	if tgBot != nil {
		callbackHandler := callbacks.NewHandler(accountRepo, sessionService, logger)
		botController := controller.NewBotController(tgBot, accountService, callbackHandler, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Failed to register bot handlers", zap.Error(err))
		}
		go botController.Start(ctx)
	}

	scheduler := app.NewScheduler(logger)
	scheduler.Every(ctx, cfg.ReminderInterval, "session_reminders",
		app.ReminderJob(sessionService, cfg.ReminderLead, logger))

	server := httpapi.NewServer(httpapi.Deps{
		Accounts:      accountService,
		Identity:      identityService,
		Conversations: conversationService,
		Messages:      messageService,
		Sessions:      sessionService,
		Tokens:        auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		DB:            pool,
	}, httpapi.Config{
		Addr:           cfg.HTTPAddr,
		AllowedOrigins: cfg.AllowedOrigins,
	}, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	scheduler.Stop()

	logger.Info("Stopped")
}
