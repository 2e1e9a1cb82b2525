package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/finware/finance-manager/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("json format at debug level", func(t *testing.T) {
		logger, err := NewLogger(config.ObservabilityConfig{LogLevel: "debug", LogFormat: "json"})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("console format filters below the configured level", func(t *testing.T) {
		logger, err := NewLogger(config.ObservabilityConfig{LogLevel: "warn", LogFormat: "text"})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("invalid level is rejected", func(t *testing.T) {
		_, err := NewLogger(config.ObservabilityConfig{LogLevel: "loud", LogFormat: "json"})
		assert.Error(t, err)
	})
}
