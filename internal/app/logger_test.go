package app

import (
	"testing"

	"github.com/Freeeeeet/tutoring_hub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerLevels(t *testing.T) {
	l, err := NewLogger(&config.Config{Environment: "production", LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	l, err = NewLogger(&config.Config{Environment: "development"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(&config.Config{Environment: "development", LogLevel: "loud"})
	assert.Error(t, err)
}

func TestLoggerConfig(t *testing.T) {
	t.Run("production writes json with service fields", func(t *testing.T) {
		zc, err := loggerConfig(&config.Config{Environment: "production", LogLevel: "info", Release: "1.4.0"})
		require.NoError(t, err)

		assert.Equal(t, "json", zc.Encoding)
		assert.Equal(t, "ts", zc.EncoderConfig.TimeKey)
		assert.Equal(t, []string{"stderr"}, zc.ErrorOutputPaths)
		assert.Equal(t, map[string]interface{}{
			"service": "tutoring-hub",
			"env":     "production",
			"release": "1.4.0",
		}, zc.InitialFields)
	})

	t.Run("development stays on console without release", func(t *testing.T) {
		zc, err := loggerConfig(&config.Config{Environment: "development", LogLevel: "debug"})
		require.NoError(t, err)

		assert.Equal(t, "console", zc.Encoding)
		assert.NotContains(t, zc.InitialFields, "release")
		assert.Equal(t, "development", zc.InitialFields["env"])
	})
}
