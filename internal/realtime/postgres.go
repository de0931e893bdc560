package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// maxNotifyPayload лимит полезной нагрузки NOTIFY в Postgres (8000 байт) с запасом
const maxNotifyPayload = 7900

var errPayloadTooLarge = errors.New("notify payload too large")

// PgPublisher публикует события через pg_notify; доставку подписчикам
// выполняет Listener каждого экземпляра сервиса.
type PgPublisher struct {
	pool    *pgxpool.Pool
	local   *Hub
	channel string
	logger  *zap.Logger
}

func NewPgPublisher(pool *pgxpool.Pool, local *Hub, logger *zap.Logger) *PgPublisher {
	return &PgPublisher{
		pool:    pool,
		local:   local,
		channel: Channel,
		logger:  logger,
	}
}

func (p *PgPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := encodeEvent(evt)
	if errors.Is(err, errPayloadTooLarge) {
		// в NOTIFY не помещается: доставляем только своим подписчикам
		p.logger.Warn("Event too large for NOTIFY, delivering locally",
			zap.String("conversation_id", evt.ConversationID.String()),
			zap.String("kind", string(evt.Kind)))
		p.local.Deliver(evt)
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := p.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, p.channel, payload); err != nil {
		return base.Wrap("publish event", err)
	}
	return nil
}

func encodeEvent(evt Event) (string, error) {
	raw, err := json.Marshal(evt)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	if len(raw) > maxNotifyPayload {
		return "", errPayloadTooLarge
	}
	return string(raw), nil
}

func decodeEvent(payload string) (Event, error) {
	var evt Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return evt, nil
}

// Listener держит выделенное соединение с LISTEN и передаёт уведомления в Hub.
// При обрыве соединения переподключается с экспоненциальной задержкой.
type Listener struct {
	pool       *pgxpool.Pool
	hub        *Hub
	channel    string
	logger     *zap.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewListener(pool *pgxpool.Pool, hub *Hub, logger *zap.Logger) *Listener {
	return &Listener{
		pool:       pool,
		hub:        hub,
		channel:    Channel,
		logger:     logger,
		minBackoff: 500 * time.Millisecond,
		maxBackoff: 30 * time.Second,
	}
}

// Run блокируется до отмены контекста
func (l *Listener) Run(ctx context.Context) {
	backoff := l.minBackoff
	for {
		started := time.Now()
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.logger.Info("Event listener stopped")
			return
		}

		if time.Since(started) > l.maxBackoff {
			backoff = l.minBackoff
		}
		l.logger.Warn("Event listener disconnected, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, l.maxBackoff)
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	// соединение с активным LISTEN не возвращаем в пул
	pgConn := conn.Hijack()
	defer pgConn.Close(context.Background())

	if _, err := pgConn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.logger.Info("Listening for events", zap.String("channel", l.channel))

	for {
		n, err := pgConn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		evt, err := decodeEvent(n.Payload)
		if err != nil {
			l.logger.Warn("Skipping malformed event", zap.Error(err))
			continue
		}
		l.hub.Deliver(evt)
	}
}
