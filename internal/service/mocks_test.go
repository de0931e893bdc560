package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/realtime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) Send(ctx context.Context, conversationID, senderAccountID uuid.UUID, content string) (*model.Message, error) {
	args := m.Called(ctx, conversationID, senderAccountID, content)
	if msg, ok := args.Get(0).(*model.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evt realtime.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type MockAlerter struct {
	mock.Mock
}

func (m *MockAlerter) Alert(ctx context.Context, accountID uuid.UUID, text string) error {
	args := m.Called(ctx, accountID, text)
	return args.Error(0)
}

type MockProposalAlerter struct {
	MockAlerter
}

func (m *MockProposalAlerter) AlertProposal(ctx context.Context, accountID uuid.UUID, text string, sessionRequestID uuid.UUID) error {
	args := m.Called(ctx, accountID, text, sessionRequestID)
	return args.Error(0)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, req *model.SessionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*model.SessionRequest, error) {
	args := m.Called(ctx, id)
	if req, ok := args.Get(0).(*model.SessionRequest); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionStore) ListByRecords(ctx context.Context, studentRecordID, tutorRecordID uuid.UUID) ([]*model.SessionRequest, error) {
	args := m.Called(ctx, studentRecordID, tutorRecordID)
	if reqs, ok := args.Get(0).([]*model.SessionRequest); ok {
		return reqs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionStore) TransitionFromPending(ctx context.Context, id uuid.UUID, status model.SessionStatus, responderID uuid.UUID) (*model.SessionRequest, error) {
	args := m.Called(ctx, id, status, responderID)
	if req, ok := args.Get(0).(*model.SessionRequest); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionStore) DueForReminder(ctx context.Context, from, to time.Time) ([]model.SessionReminder, error) {
	args := m.Called(ctx, from, to)
	if due, ok := args.Get(0).([]model.SessionReminder); ok {
		return due, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionStore) MarkReminded(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRoleStore struct {
	mock.Mock
}

func (m *MockRoleStore) GetTutorByAccount(ctx context.Context, accountID uuid.UUID) (*model.TutorRecord, error) {
	args := m.Called(ctx, accountID)
	if rec, ok := args.Get(0).(*model.TutorRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoleStore) GetStudentByAccount(ctx context.Context, accountID uuid.UUID) (*model.StudentRecord, error) {
	args := m.Called(ctx, accountID)
	if rec, ok := args.Get(0).(*model.StudentRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoleStore) UpsertTutor(ctx context.Context, accountID uuid.UUID, subjects model.SubjectSet) (*model.TutorRecord, error) {
	args := m.Called(ctx, accountID, subjects)
	if rec, ok := args.Get(0).(*model.TutorRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoleStore) UpsertStudent(ctx context.Context, accountID uuid.UUID, subjects model.SubjectSet) (*model.StudentRecord, error) {
	args := m.Called(ctx, accountID, subjects)
	if rec, ok := args.Get(0).(*model.StudentRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoleStore) TutorsForSubject(ctx context.Context, subject model.Subject) ([]model.TutorListing, error) {
	args := m.Called(ctx, subject)
	if tutors, ok := args.Get(0).([]model.TutorListing); ok {
		return tutors, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	args := m.Called(ctx, id)
	if account, ok := args.Get(0).(*model.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if account, ok := args.Get(0).(*model.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Account, error) {
	args := m.Called(ctx, ids)
	if accounts, ok := args.Get(0).([]*model.Account); ok {
		return accounts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) UpdateProfile(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) UpdateTelegramChatID(ctx context.Context, id uuid.UUID, chatID *int64) error {
	args := m.Called(ctx, id, chatID)
	return args.Error(0)
}

type MockTelegramLinkStore struct {
	mock.Mock
}

func (m *MockTelegramLinkStore) CreateCode(ctx context.Context, code string, chatID int64, expiresAt time.Time) error {
	args := m.Called(ctx, code, chatID, expiresAt)
	return args.Error(0)
}

func (m *MockTelegramLinkStore) ConsumeCode(ctx context.Context, code string, now time.Time) (*int64, error) {
	args := m.Called(ctx, code, now)
	if chatID, ok := args.Get(0).(*int64); ok {
		return chatID, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSubjectCatalog struct {
	mock.Mock
}

func (m *MockSubjectCatalog) Available(ctx context.Context, department string, year int) ([]model.Subject, error) {
	args := m.Called(ctx, department, year)
	if subjects, ok := args.Get(0).([]model.Subject); ok {
		return subjects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubjectCatalog) ByDepartmentYear(ctx context.Context, department string, year int) ([]model.Subject, error) {
	args := m.Called(ctx, department, year)
	if subjects, ok := args.Get(0).([]model.Subject); ok {
		return subjects, args.Error(1)
	}
	return nil, args.Error(1)
}
