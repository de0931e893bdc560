package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/auth"
	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	accounts := &MockAccountStore{}
	accounts.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Account) bool {
		return a.Email == "alice@example.com" && a.PasswordHash != "" && a.PasswordHash != "password123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Account).ID = uuid.New()
	}).Return(nil).Once()

	service := NewAccountService(accounts, &MockTelegramLinkStore{}, zap.NewNop())
	blank := "  "

	account, err := service.Register(ctx, RegisterInput{
		DisplayName:    "Alice",
		Email:          "  Alice@Example.com ",
		Password:       "password123",
		Year:           1,
		Department:     model.DepartmentSTPI,
		Preorientation: &blank,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Nil(t, account.Preorientation)
	accounts.AssertExpectations(t)
}

func TestAccountService_RegisterValidation(t *testing.T) {
	service := NewAccountService(&MockAccountStore{}, &MockTelegramLinkStore{}, zap.NewNop())

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "password123", Year: 1, Department: "stpi"}},
		{"bad email", RegisterInput{DisplayName: "A", Email: "nope", Password: "password123", Year: 1, Department: "stpi"}},
		{"short password", RegisterInput{DisplayName: "A", Email: "a@example.com", Password: "short", Year: 1, Department: "stpi"}},
		{"year out of range", RegisterInput{DisplayName: "A", Email: "a@example.com", Password: "password123", Year: 0, Department: "stpi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	stored := &model.Account{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash}

	accounts := &MockAccountStore{}
	accounts.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)
	accounts.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	service := NewAccountService(accounts, &MockTelegramLinkStore{}, zap.NewNop())

	account, err := service.Authenticate(ctx, "Alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, account.ID)

	_, err = service.Authenticate(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = service.Authenticate(ctx, "ghost@example.com", "password123")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestAccountService_Get(t *testing.T) {
	missing := uuid.New()
	accounts := &MockAccountStore{}
	accounts.On("GetByID", mock.Anything, missing).Return(nil, nil)

	_, err := NewAccountService(accounts, &MockTelegramLinkStore{}, zap.NewNop()).Get(context.Background(), missing)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAccountService_IssueTelegramCode(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	chatID := int64(4242)

	links := &MockTelegramLinkStore{}
	links.On("CreateCode", mock.Anything, mock.AnythingOfType("string"), chatID, now.Add(TelegramCodeTTL)).Return(nil).Twice()

	service := NewAccountService(&MockAccountStore{}, links, zap.NewNop())
	service.now = func() time.Time { return now }

	first, err := service.IssueTelegramCode(context.Background(), chatID)
	require.NoError(t, err)
	second, err := service.IssueTelegramCode(context.Background(), chatID)
	require.NoError(t, err)

	assert.Len(t, first, 10)
	assert.NotEqual(t, first, second)
	links.AssertExpectations(t)
}

func TestAccountService_LinkTelegram(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	alice := uuid.New()
	chatID := int64(4242)

	newService := func(accounts *MockAccountStore, links *MockTelegramLinkStore) *AccountService {
		service := NewAccountService(accounts, links, zap.NewNop())
		service.now = func() time.Time { return now }
		return service
	}

	t.Run("code resolves to its chat", func(t *testing.T) {
		accounts, links := &MockAccountStore{}, &MockTelegramLinkStore{}
		links.On("ConsumeCode", mock.Anything, "ABCD2345EF", now).Return(&chatID, nil).Once()
		accounts.On("UpdateTelegramChatID", mock.Anything, alice, &chatID).Return(nil).Once()

		code := " abcd2345ef "
		require.NoError(t, newService(accounts, links).LinkTelegram(ctx, alice, &code))
		accounts.AssertExpectations(t)
		links.AssertExpectations(t)
	})

	t.Run("unknown or reused code", func(t *testing.T) {
		accounts, links := &MockAccountStore{}, &MockTelegramLinkStore{}
		links.On("ConsumeCode", mock.Anything, "ABCD2345EF", now).Return(nil, nil).Once()

		code := "ABCD2345EF"
		err := newService(accounts, links).LinkTelegram(ctx, alice, &code)
		assert.ErrorIs(t, err, model.ErrValidation)
		accounts.AssertNotCalled(t, "UpdateTelegramChatID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank code", func(t *testing.T) {
		accounts, links := &MockAccountStore{}, &MockTelegramLinkStore{}

		code := "   "
		err := newService(accounts, links).LinkTelegram(ctx, alice, &code)
		assert.ErrorIs(t, err, model.ErrValidation)
		links.AssertNotCalled(t, "ConsumeCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("chat owned by another account", func(t *testing.T) {
		accounts, links := &MockAccountStore{}, &MockTelegramLinkStore{}
		links.On("ConsumeCode", mock.Anything, "ABCD2345EF", now).Return(&chatID, nil).Once()
		accounts.On("UpdateTelegramChatID", mock.Anything, alice, &chatID).Return(model.ErrConflict).Once()

		code := "ABCD2345EF"
		err := newService(accounts, links).LinkTelegram(ctx, alice, &code)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("nil unlinks without a code", func(t *testing.T) {
		accounts, links := &MockAccountStore{}, &MockTelegramLinkStore{}
		accounts.On("UpdateTelegramChatID", mock.Anything, alice, (*int64)(nil)).Return(nil).Once()

		require.NoError(t, newService(accounts, links).LinkTelegram(ctx, alice, nil))
		accounts.AssertExpectations(t)
		links.AssertNotCalled(t, "ConsumeCode", mock.Anything, mock.Anything, mock.Anything)
	})
}
