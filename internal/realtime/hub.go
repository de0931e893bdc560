package realtime

import (
	"context"
	"sync"

	"github.com/Freeeeeet/tutoring_hub/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultBufferSize = 256

type subscriber struct {
	id      uint64
	topic   uuid.UUID
	events  chan Event
	done    chan struct{}
	handler Handler

	closeOnce sync.Once
	// пишется до close(done), читается после
	lagged bool
}

// Hub раздаёт события подписчикам внутри процесса.
// У каждого подписчика своя очередь и своя горутина, поэтому медленный
// обработчик не задерживает остальных, а порядок для одного подписчика сохраняется.
// Подписчик с переполненной очередью отключается и получает EventFeedLagged.
type Hub struct {
	mu         sync.RWMutex
	topics     map[uuid.UUID]map[uint64]*subscriber
	nextID     uint64
	bufferSize int
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		topics:     make(map[uuid.UUID]map[uint64]*subscriber),
		bufferSize: defaultBufferSize,
		logger:     logger,
	}
}

// Subscribe регистрирует обработчик. Отписка идемпотентна и затрагивает
// только этого подписчика.
func (h *Hub) Subscribe(topic uuid.UUID, handler Handler) func() {
	h.mu.Lock()
	h.nextID++
	sub := &subscriber{
		id:      h.nextID,
		topic:   topic,
		events:  make(chan Event, h.bufferSize),
		done:    make(chan struct{}),
		handler: handler,
	}
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[uint64]*subscriber)
	}
	h.topics[topic][sub.id] = sub
	h.mu.Unlock()

	metrics.FeedSubscribers.Inc()
	go sub.run()

	return func() { h.close(sub, false) }
}

// Deliver ставит событие в очереди подписчиков топика. Подписчик, чья очередь
// переполнена, отключается: события ему больше не идут, последним он получает
// EventFeedLagged.
func (h *Hub) Deliver(evt Event) {
	var lagging []*subscriber

	h.mu.RLock()
	metrics.FeedEvents.WithLabelValues(string(evt.Kind)).Inc()
	for _, sub := range h.topics[evt.ConversationID] {
		select {
		case sub.events <- evt:
		default:
			lagging = append(lagging, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range lagging {
		h.close(sub, true)
	}
}

// Publish реализует Publisher для режима без внешней шины
func (h *Hub) Publish(_ context.Context, evt Event) error {
	h.Deliver(evt)
	return nil
}

// Subscribers число подписчиков топика
func (h *Hub) Subscribers(topic uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) close(sub *subscriber, lagged bool) {
	sub.closeOnce.Do(func() {
		h.remove(sub)
		if lagged {
			metrics.FeedEvicted.Inc()
			h.logger.Warn("Feed subscriber queue is full, subscription closed",
				zap.String("conversation_id", sub.topic.String()),
				zap.Uint64("subscriber", sub.id))
		}
		sub.lagged = lagged
		close(sub.done)
		metrics.FeedSubscribers.Dec()
	})
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.topics[sub.topic]
	delete(subs, sub.id)
	if len(subs) == 0 {
		delete(h.topics, sub.topic)
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			s.finish()
			return
		case evt := <-s.events:
			select {
			case <-s.done:
				s.finish()
				return
			default:
			}
			s.handler(evt)
		}
	}
}

func (s *subscriber) finish() {
	if s.lagged {
		s.handler(FeedLagged(s.topic))
	}
}
