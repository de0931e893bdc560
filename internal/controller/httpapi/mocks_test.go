package httpapi

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/realtime"
	"github.com/Freeeeeet/tutoring_hub/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) Register(ctx context.Context, in service.RegisterInput) (*model.Account, error) {
	args := m.Called(ctx, in)
	if a, ok := args.Get(0).(*model.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	args := m.Called(ctx, email, password)
	if a, ok := args.Get(0).(*model.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) Get(ctx context.Context, accountID uuid.UUID) (*model.Account, error) {
	args := m.Called(ctx, accountID)
	if a, ok := args.Get(0).(*model.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) UpdateProfile(ctx context.Context, accountID uuid.UUID, in service.ProfileInput) (*model.Account, error) {
	args := m.Called(ctx, accountID, in)
	if a, ok := args.Get(0).(*model.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) LinkTelegram(ctx context.Context, accountID uuid.UUID, code *string) error {
	args := m.Called(ctx, accountID, code)
	return args.Error(0)
}

type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) Resolve(ctx context.Context, accountID uuid.UUID) (model.Roles, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(model.Roles), args.Error(1)
}

func (m *MockIdentity) RegisterAsTutor(ctx context.Context, accountID uuid.UUID, subjects []model.Subject) (*model.TutorRecord, error) {
	args := m.Called(ctx, accountID, subjects)
	if rec, ok := args.Get(0).(*model.TutorRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentity) RegisterAsStudent(ctx context.Context, accountID uuid.UUID, subjects []model.Subject) (*model.StudentRecord, error) {
	args := m.Called(ctx, accountID, subjects)
	if rec, ok := args.Get(0).(*model.StudentRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentity) AvailableSubjects(ctx context.Context, department string, year int) ([]model.Subject, error) {
	args := m.Called(ctx, department, year)
	return args.Get(0).([]model.Subject), args.Error(1)
}

func (m *MockIdentity) StudentSubjects(ctx context.Context, accountID uuid.UUID) ([]model.Subject, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]model.Subject), args.Error(1)
}

func (m *MockIdentity) TutorsForSubject(ctx context.Context, subject model.Subject) ([]model.TutorListing, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).([]model.TutorListing), args.Error(1)
}

type MockConversations struct {
	mock.Mock
}

func (m *MockConversations) GetOrCreate(ctx context.Context, studentAccountID, tutorAccountID uuid.UUID, subjectLabel string) (*model.Conversation, error) {
	args := m.Called(ctx, studentAccountID, tutorAccountID, subjectLabel)
	if c, ok := args.Get(0).(*model.Conversation); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockConversations) GetForParty(ctx context.Context, conversationID, accountID uuid.UUID) (*model.Conversation, error) {
	args := m.Called(ctx, conversationID, accountID)
	if c, ok := args.Get(0).(*model.Conversation); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockConversations) ResolveOtherParty(ctx context.Context, conversationID, viewerAccountID uuid.UUID) (model.OtherParty, error) {
	args := m.Called(ctx, conversationID, viewerAccountID)
	return args.Get(0).(model.OtherParty), args.Error(1)
}

func (m *MockConversations) ListForAccount(ctx context.Context, accountID uuid.UUID) ([]model.ConversationSummary, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]model.ConversationSummary), args.Error(1)
}

type MockMessages struct {
	mock.Mock
}

func (m *MockMessages) Send(ctx context.Context, conversationID, senderAccountID uuid.UUID, content string) (*model.Message, error) {
	args := m.Called(ctx, conversationID, senderAccountID, content)
	if msg, ok := args.Get(0).(*model.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMessages) List(ctx context.Context, conversationID uuid.UUID) ([]*model.Message, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).([]*model.Message), args.Error(1)
}

func (m *MockMessages) Subscribe(conversationID uuid.UUID, handler realtime.Handler) func() {
	args := m.Called(conversationID, handler)
	return args.Get(0).(func())
}

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Propose(ctx context.Context, conversationID, proposerAccountID uuid.UUID, subject model.Subject, scheduledAt time.Time, durationMinutes int) (*model.SessionRequest, error) {
	args := m.Called(ctx, conversationID, proposerAccountID, subject, scheduledAt, durationMinutes)
	if req, ok := args.Get(0).(*model.SessionRequest); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessions) Respond(ctx context.Context, sessionRequestID, responderAccountID uuid.UUID, accepted bool) (*model.SessionResponse, error) {
	args := m.Called(ctx, sessionRequestID, responderAccountID, accepted)
	if resp, ok := args.Get(0).(*model.SessionResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessions) Cancel(ctx context.Context, sessionRequestID, cancellerAccountID uuid.UUID) (*model.SessionResponse, error) {
	args := m.Called(ctx, sessionRequestID, cancellerAccountID)
	if resp, ok := args.Get(0).(*model.SessionResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessions) ListForConversation(ctx context.Context, conversationID uuid.UUID) ([]*model.SessionRequest, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).([]*model.SessionRequest), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
