package ctxutil

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type key int

const (
	keyAccountID key = iota
	keyRequestID
)

// WithAccountID сохраняет аутентифицированный аккаунт запроса
func WithAccountID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, keyAccountID, id)
}

func AccountID(ctx context.Context) (uuid.UUID, bool) {
	v := ctx.Value(keyAccountID)
	if v == nil {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// WithRequestID идентификатор HTTP-запроса для логов
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(keyRequestID)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// DefaultDBTimeout переопределяется из конфига (DB_TIMEOUT) при старте.
var DefaultDBTimeout = 5 * time.Second

// WithDBTimeout стандартный таймаут для БД. Если у родителя дедлайн ближе, он сохраняется.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok && time.Until(dl) < DefaultDBTimeout {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
