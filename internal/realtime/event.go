package realtime

import (
	"context"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/google/uuid"
)

// Channel канал LISTEN/NOTIFY для событий переписок
const Channel = "tutoring_events"

type EventKind string

const (
	EventMessageCreated EventKind = "message.created"
	EventSessionCreated EventKind = "session.created"
	EventSessionUpdated EventKind = "session.updated"
	// EventFeedLagged последнее событие отключённой подписки: подписчик не
	// успевал разбирать очередь и должен перечитать переписку через REST
	EventFeedLagged EventKind = "feed.lagged"
)

// Event событие ленты переписки, топиком служит ConversationID
type Event struct {
	Kind           EventKind             `json:"kind"`
	ConversationID uuid.UUID             `json:"conversation_id"`
	Message        *model.Message        `json:"message,omitempty"`
	Session        *model.SessionRequest `json:"session,omitempty"`
}

func MessageCreated(msg *model.Message) Event {
	return Event{Kind: EventMessageCreated, ConversationID: msg.ConversationID, Message: msg}
}

func SessionCreated(req *model.SessionRequest) Event {
	return Event{Kind: EventSessionCreated, ConversationID: req.ConversationID, Session: req}
}

func SessionUpdated(req *model.SessionRequest) Event {
	return Event{Kind: EventSessionUpdated, ConversationID: req.ConversationID, Session: req}
}

func FeedLagged(conversationID uuid.UUID) Event {
	return Event{Kind: EventFeedLagged, ConversationID: conversationID}
}

// Handler получает события подписки по одному, в порядке публикации
type Handler func(Event)

// Publisher отправляет событие в ленту
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Subscriber регистрирует обработчик на топик и возвращает функцию отписки
type Subscriber interface {
	Subscribe(topic uuid.UUID, handler Handler) (unsubscribe func())
}
