package app

import (
	"fmt"

	"github.com/Freeeeeet/tutoring_hub/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "tutoring-hub"

// NewLogger собирает логгер по конфигурации: JSON в production,
// цветная консоль при разработке. Каждая запись несёт service, env и release.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zc, err := loggerConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func loggerConfig(cfg *config.Config) (zap.Config, error) {
	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "ts"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zc.OutputPaths = []string{"stdout"}
	zc.ErrorOutputPaths = []string{"stderr"}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return zap.Config{}, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	zc.InitialFields = map[string]interface{}{
		"service": serviceName,
		"env":     cfg.Environment,
	}
	if cfg.Release != "" {
		zc.InitialFields["release"] = cfg.Release
	}

	return zc, nil
}
