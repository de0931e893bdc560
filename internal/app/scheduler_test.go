package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReminder struct {
	calls atomic.Int32
	lead  time.Duration
	sent  int
	err   error
}

func (f *fakeReminder) SendReminders(_ context.Context, _ time.Time, lead time.Duration) (int, error) {
	f.calls.Add(1)
	f.lead = lead
	return f.sent, f.err
}

func TestSchedulerRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	var runs atomic.Int32

	s.Every(context.Background(), time.Hour, "test", func(context.Context) error {
		runs.Add(1)
		return nil
	})

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

func TestSchedulerSurvivesPanicAndError(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	var runs atomic.Int32

	s.Every(context.Background(), 10*time.Millisecond, "flaky", func(context.Context) error {
		n := runs.Add(1)
		switch n {
		case 1:
			panic("boom")
		case 2:
			return errors.New("temporary")
		}
		return nil
	})

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	s.Every(ctx, time.Hour, "cancel", func(context.Context) error { return nil })
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}

func TestReminderJob(t *testing.T) {
	r := &fakeReminder{sent: 2}
	job := ReminderJob(r, 30*time.Minute, zap.NewNop())

	require.NoError(t, job(context.Background()))
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, 30*time.Minute, r.lead)

	r.err = errors.New("db down")
	assert.Error(t, job(context.Background()))
}
