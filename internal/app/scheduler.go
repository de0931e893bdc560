package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/metrics"
	"github.com/Freeeeeet/tutoring_hub/internal/observability"
	"go.uber.org/zap"
)

// Job одна итерация фоновой задачи
type Job func(ctx context.Context) error

// Reminder рассылает напоминания о ближайших занятиях
type Reminder interface {
	SendReminders(ctx context.Context, now time.Time, lead time.Duration) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	logger   *zap.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Every запускает задачу с заданным интервалом; первый запуск сразу при старте
func (s *Scheduler) Every(ctx context.Context, interval time.Duration, name string, fn Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.runOnce(ctx, name, fn)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce(ctx, name, fn)
			case <-s.stopChan:
				s.logger.Info("Background job stopped", zap.String("job", name))
				return
			case <-ctx.Done():
				s.logger.Info("Background job cancelled", zap.String("job", name))
				return
			}
		}
	}()
}

func (s *Scheduler) runOnce(ctx context.Context, name string, fn Job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in job %s: %v", name, r)
			s.logger.Error("Background job panicked", zap.String("job", name), zap.Any("panic", r))
			observability.CaptureErrWithTags(err, map[string]string{"job": name})
			metrics.JobErrors.WithLabelValues(name).Inc()
		}
		metrics.JobRuns.WithLabelValues(name).Inc()
		metrics.JobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	if err := fn(ctx); err != nil {
		metrics.JobErrors.WithLabelValues(name).Inc()
		s.logger.Error("Background job failed", zap.String("job", name), zap.Error(err))
		observability.CaptureErrWithTags(err, map[string]string{"job": name})
	}
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	s.wg.Wait()
}

// ReminderJob напоминает участникам о занятиях, которые начнутся в ближайшие lead
func ReminderJob(reminder Reminder, lead time.Duration, logger *zap.Logger) Job {
	return func(ctx context.Context) error {
		sent, err := reminder.SendReminders(ctx, time.Now().UTC(), lead)
		if err != nil {
			return err
		}
		if sent > 0 {
			logger.Info("Session reminders sent", zap.Int("count", sent))
		}
		return nil
	}
}
