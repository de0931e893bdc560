package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/auth"
	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterInput struct {
	DisplayName    string  `json:"display_name" validate:"required,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8,max=72"`
	Year           int     `json:"year" validate:"gte=1,lte=8"`
	Department     string  `json:"department" validate:"required"`
	Preorientation *string `json:"preorientation,omitempty"`
}

type ProfileInput struct {
	DisplayName    string  `json:"display_name" validate:"required,max=100"`
	Year           int     `json:"year" validate:"gte=1,lte=8"`
	Department     string  `json:"department" validate:"required"`
	Preorientation *string `json:"preorientation,omitempty"`
}

// TelegramCodeTTL срок жизни кода привязки, выданного ботом
const TelegramCodeTTL = 10 * time.Minute

var linkCodeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

type AccountService struct {
	accounts AccountStore
	links    TelegramLinkStore
	now      func() time.Time
	logger   *zap.Logger
}

func NewAccountService(accounts AccountStore, links TelegramLinkStore, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		links:    links,
		now:      time.Now,
		logger:   logger,
	}
}

// Register создаёт аккаунт. Email нечувствителен к регистру, повтор даёт ErrConflict.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		DisplayName:    in.DisplayName,
		Email:          in.Email,
		PasswordHash:   hash,
		Year:           in.Year,
		Department:     in.Department,
		Preorientation: normalizeOptional(in.Preorientation),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("Account registered",
		zap.String("account_id", account.ID.String()),
		zap.Int("year", account.Year),
		zap.String("department", account.Department))

	return account, nil
}

// Authenticate проверяет email и пароль; любая неудача возвращается как ErrUnauthorized
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized)
	}

	ok, err := auth.ComparePassword(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized)
	}

	return account, nil
}

func (s *AccountService) Get(ctx context.Context, accountID uuid.UUID) (*model.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, accountID)
	}
	return account, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, accountID uuid.UUID, in ProfileInput) (*model.Account, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	account, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.DisplayName = in.DisplayName
	account.Year = in.Year
	account.Department = in.Department
	account.Preorientation = normalizeOptional(in.Preorientation)

	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return account, nil
}

// IssueTelegramCode выдаёт одноразовый код для чата, из которого пришёл /start.
// Предъявление кода в API доказывает, что пользователь владеет этим чатом.
func (s *AccountService) IssueTelegramCode(ctx context.Context, chatID int64) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate link code: %w", err)
	}
	code := linkCodeEncoding.EncodeToString(buf)

	if err := s.links.CreateCode(ctx, code, chatID, s.now().Add(TelegramCodeTTL)); err != nil {
		return "", fmt.Errorf("store link code: %w", err)
	}

	s.logger.Info("Telegram link code issued", zap.Int64("chat_id", chatID))
	return code, nil
}

// LinkTelegram привязывает чат по коду, выданному ботом; nil отвязывает.
// Код одноразовый, чат другого аккаунта даёт ErrConflict.
func (s *AccountService) LinkTelegram(ctx context.Context, accountID uuid.UUID, code *string) error {
	var chatID *int64
	if code != nil {
		normalized := strings.ToUpper(strings.TrimSpace(*code))
		if normalized == "" {
			return fmt.Errorf("%w: link code is required", model.ErrValidation)
		}

		consumed, err := s.links.ConsumeCode(ctx, normalized, s.now())
		if err != nil {
			return fmt.Errorf("consume link code: %w", err)
		}
		if consumed == nil {
			return fmt.Errorf("%w: link code is invalid or expired", model.ErrValidation)
		}
		chatID = consumed
	}

	if err := s.accounts.UpdateTelegramChatID(ctx, accountID, chatID); err != nil {
		return fmt.Errorf("update telegram chat id: %w", err)
	}

	s.logger.Info("Telegram link updated",
		zap.String("account_id", accountID.String()),
		zap.Bool("linked", chatID != nil))

	return nil
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
