package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func messageEvent(conversationID uuid.UUID, content string) Event {
	return MessageCreated(&model.Message{ID: uuid.New(), ConversationID: conversationID, Content: content})
}

func TestHub_DeliversInPublishOrder(t *testing.T) {
	hub := NewHub(zap.NewNop())
	topic := uuid.New()
	rec := &recorder{}

	unsubscribe := hub.Subscribe(topic, rec.handle)
	defer unsubscribe()

	for _, content := range []string{"one", "two", "three"} {
		hub.Deliver(messageEvent(topic, content))
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 3 }, time.Second, 5*time.Millisecond)

	events := rec.snapshot()
	assert.Equal(t, "one", events[0].Message.Content)
	assert.Equal(t, "two", events[1].Message.Content)
	assert.Equal(t, "three", events[2].Message.Content)
}

func TestHub_TopicsAreIsolated(t *testing.T) {
	hub := NewHub(zap.NewNop())
	first, second := uuid.New(), uuid.New()
	recFirst, recSecond := &recorder{}, &recorder{}

	defer hub.Subscribe(first, recFirst.handle)()
	defer hub.Subscribe(second, recSecond.handle)()

	hub.Deliver(messageEvent(first, "hello"))

	require.Eventually(t, func() bool { return len(recFirst.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, recSecond.snapshot())
}

func TestHub_UnsubscribeIsIdempotentAndLocal(t *testing.T) {
	hub := NewHub(zap.NewNop())
	topic := uuid.New()
	recA, recB := &recorder{}, &recorder{}

	unsubscribeA := hub.Subscribe(topic, recA.handle)
	unsubscribeB := hub.Subscribe(topic, recB.handle)
	defer unsubscribeB()
	assert.Equal(t, 2, hub.Subscribers(topic))

	unsubscribeA()
	assert.NotPanics(t, unsubscribeA)
	assert.Equal(t, 1, hub.Subscribers(topic))

	hub.Deliver(messageEvent(topic, "after"))

	require.Eventually(t, func() bool { return len(recB.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, recA.snapshot())
}

func TestHub_EvictsSubscriberWhenQueueIsFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.bufferSize = 1
	topic := uuid.New()

	release := make(chan struct{})
	slow := &recorder{}
	unsubscribe := hub.Subscribe(topic, func(evt Event) {
		<-release
		slow.handle(evt)
	})

	for i := 0; i < 10; i++ {
		hub.Deliver(messageEvent(topic, "burst"))
	}
	assert.Equal(t, 0, hub.Subscribers(topic))

	hub.Deliver(messageEvent(topic, "after eviction"))
	close(release)

	require.Eventually(t, func() bool {
		events := slow.snapshot()
		return len(events) > 0 && events[len(events)-1].Kind == EventFeedLagged
	}, time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	events := slow.snapshot()
	assert.Less(t, len(events), 10)
	for _, evt := range events[:len(events)-1] {
		assert.Equal(t, "burst", evt.Message.Content)
	}
	assert.Equal(t, topic, events[len(events)-1].ConversationID)

	assert.NotPanics(t, unsubscribe)
}

func TestHub_EvictionLeavesOtherSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.bufferSize = 1
	topic := uuid.New()

	release := make(chan struct{})
	defer close(release)
	defer hub.Subscribe(topic, func(Event) { <-release })()

	var got []string
	var mu sync.Mutex
	ready := make(chan struct{}, 16)
	defer hub.Subscribe(topic, func(evt Event) {
		mu.Lock()
		got = append(got, evt.Message.Content)
		mu.Unlock()
		ready <- struct{}{}
	})()

	for _, content := range []string{"one", "two", "three"} {
		hub.Deliver(messageEvent(topic, content))
		<-ready
	}

	assert.Equal(t, 1, hub.Subscribers(topic))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestHub_PublishDeliversLocally(t *testing.T) {
	hub := NewHub(zap.NewNop())
	topic := uuid.New()
	rec := &recorder{}
	defer hub.Subscribe(topic, rec.handle)()

	require.NoError(t, hub.Publish(t.Context(), messageEvent(topic, "local")))
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestEncodeEvent(t *testing.T) {
	topic := uuid.New()
	payload, err := encodeEvent(messageEvent(topic, "hi"))
	require.NoError(t, err)

	evt, err := decodeEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, EventMessageCreated, evt.Kind)
	assert.Equal(t, topic, evt.ConversationID)

	big := make([]rune, model.MaxMessageLength)
	for i := range big {
		big[i] = '😀'
	}
	_, err = encodeEvent(messageEvent(topic, string(big)))
	assert.ErrorIs(t, err, errPayloadTooLarge)
}
