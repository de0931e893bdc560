package httpapi

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/realtime"
	"github.com/Freeeeeet/tutoring_hub/internal/service"
	"github.com/google/uuid"
)

type Accounts interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.Account, error)
	Authenticate(ctx context.Context, email, password string) (*model.Account, error)
	Get(ctx context.Context, accountID uuid.UUID) (*model.Account, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, in service.ProfileInput) (*model.Account, error)
	LinkTelegram(ctx context.Context, accountID uuid.UUID, code *string) error
}

type Identity interface {
	Resolve(ctx context.Context, accountID uuid.UUID) (model.Roles, error)
	RegisterAsTutor(ctx context.Context, accountID uuid.UUID, subjects []model.Subject) (*model.TutorRecord, error)
	RegisterAsStudent(ctx context.Context, accountID uuid.UUID, subjects []model.Subject) (*model.StudentRecord, error)
	AvailableSubjects(ctx context.Context, department string, year int) ([]model.Subject, error)
	StudentSubjects(ctx context.Context, accountID uuid.UUID) ([]model.Subject, error)
	TutorsForSubject(ctx context.Context, subject model.Subject) ([]model.TutorListing, error)
}

type Conversations interface {
	GetOrCreate(ctx context.Context, studentAccountID, tutorAccountID uuid.UUID, subjectLabel string) (*model.Conversation, error)
	GetForParty(ctx context.Context, conversationID, accountID uuid.UUID) (*model.Conversation, error)
	ResolveOtherParty(ctx context.Context, conversationID, viewerAccountID uuid.UUID) (model.OtherParty, error)
	ListForAccount(ctx context.Context, accountID uuid.UUID) ([]model.ConversationSummary, error)
}

type Messages interface {
	Send(ctx context.Context, conversationID, senderAccountID uuid.UUID, content string) (*model.Message, error)
	List(ctx context.Context, conversationID uuid.UUID) ([]*model.Message, error)
	Subscribe(conversationID uuid.UUID, handler realtime.Handler) func()
}

type Sessions interface {
	Propose(ctx context.Context, conversationID, proposerAccountID uuid.UUID, subject model.Subject, scheduledAt time.Time, durationMinutes int) (*model.SessionRequest, error)
	Respond(ctx context.Context, sessionRequestID, responderAccountID uuid.UUID, accepted bool) (*model.SessionResponse, error)
	Cancel(ctx context.Context, sessionRequestID, cancellerAccountID uuid.UUID) (*model.SessionResponse, error)
	ListForConversation(ctx context.Context, conversationID uuid.UUID) ([]*model.SessionRequest, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type TokenIssuer interface {
	Generate(accountID uuid.UUID) (string, error)
	Validate(tokenString string) (uuid.UUID, error)
}
