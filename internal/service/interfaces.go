package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/google/uuid"
)

// Хранилища, которые нужны сервисам; реализации лежат в пакете repository.
// Поиск отсутствующей записи возвращает (nil, nil).

type AccountStore interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Account, error)
	UpdateProfile(ctx context.Context, account *model.Account) error
	UpdateTelegramChatID(ctx context.Context, id uuid.UUID, chatID *int64) error
}

// TelegramLinkStore одноразовые коды привязки чата; ConsumeCode возвращает
// (nil, nil) для неизвестного или просроченного кода.
type TelegramLinkStore interface {
	CreateCode(ctx context.Context, code string, chatID int64, expiresAt time.Time) error
	ConsumeCode(ctx context.Context, code string, now time.Time) (*int64, error)
}

type SubjectCatalog interface {
	Available(ctx context.Context, department string, year int) ([]model.Subject, error)
	ByDepartmentYear(ctx context.Context, department string, year int) ([]model.Subject, error)
}

type RoleStore interface {
	GetTutorByAccount(ctx context.Context, accountID uuid.UUID) (*model.TutorRecord, error)
	GetStudentByAccount(ctx context.Context, accountID uuid.UUID) (*model.StudentRecord, error)
	UpsertTutor(ctx context.Context, accountID uuid.UUID, subjects model.SubjectSet) (*model.TutorRecord, error)
	UpsertStudent(ctx context.Context, accountID uuid.UUID, subjects model.SubjectSet) (*model.StudentRecord, error)
	TutorsForSubject(ctx context.Context, subject model.Subject) ([]model.TutorListing, error)
}

type ConversationStore interface {
	CreateIfAbsent(ctx context.Context, studentAccountID, tutorAccountID uuid.UUID, subject *string) (*model.Conversation, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Conversation, error)
	ListSummaries(ctx context.Context, accountID uuid.UUID) ([]model.ConversationSummary, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*model.Message, error)
}

type SessionStore interface {
	Create(ctx context.Context, req *model.SessionRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SessionRequest, error)
	ListByRecords(ctx context.Context, studentRecordID, tutorRecordID uuid.UUID) ([]*model.SessionRequest, error)
	TransitionFromPending(ctx context.Context, id uuid.UUID, status model.SessionStatus, responderID uuid.UUID) (*model.SessionRequest, error)
	DueForReminder(ctx context.Context, from, to time.Time) ([]model.SessionReminder, error)
	MarkReminded(ctx context.Context, id uuid.UUID) error
}

// MessageSender отправка строки в переписку; для предложений занятий это
// побочный эффект, ошибки которого не влияют на результат операции.
type MessageSender interface {
	Send(ctx context.Context, conversationID, senderAccountID uuid.UUID, content string) (*model.Message, error)
}

// Alerter доставляет короткое уведомление аккаунту вне приложения (Telegram)
type Alerter interface {
	Alert(ctx context.Context, accountID uuid.UUID, text string) error
}

// ProposalAlerter Alerter, который умеет приложить к уведомлению кнопки ответа
type ProposalAlerter interface {
	AlertProposal(ctx context.Context, accountID uuid.UUID, text string, sessionRequestID uuid.UUID) error
}

// NopAlerter используется, когда внешний канал не настроен
type NopAlerter struct{}

func (NopAlerter) Alert(context.Context, uuid.UUID, string) error { return nil }
