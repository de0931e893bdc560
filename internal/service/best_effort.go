package service

import (
	"github.com/Freeeeeet/tutoring_hub/internal/metrics"
	"github.com/Freeeeeet/tutoring_hub/internal/observability"
	"go.uber.org/zap"
)

// reportBestEffort логирует и считает неудачу побочного эффекта, не прерывая операцию
func reportBestEffort(logger *zap.Logger, kind string, err error, fields ...zap.Field) {
	if err == nil {
		return
	}
	logger.Warn("Best-effort side effect failed",
		append(fields, zap.String("kind", kind), zap.Error(err))...)
	metrics.NotificationFailures.WithLabelValues(kind).Inc()
	observability.CaptureErrWithTags(err, map[string]string{"side_effect": kind})
}
