package utils

import (
	"testing"

	"mindwell/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func withLogLevel(t *testing.T, level string) {
	t.Helper()
	prevLevel, prevLogger := config.AppConfig.LogLevel, Logger
	t.Cleanup(func() {
		config.AppConfig.LogLevel = prevLevel
		Logger = prevLogger
	})
	config.AppConfig.LogLevel = level
	Logger = nil
}

func TestInitializeLogger_RespectsConfiguredLevel(t *testing.T) {
	withLogLevel(t, "warn")
	InitializeLogger()

	assert.True(t, Logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, Logger.Core().Enabled(zapcore.InfoLevel))
}

func TestInitializeLogger_DefaultsWithoutLevel(t *testing.T) {
	withLogLevel(t, "")
	InitializeLogger()

	// Development default is debug.
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitializeLogger_IgnoresUnknownLevel(t *testing.T) {
	withLogLevel(t, "chatty")
	InitializeLogger()

	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))
}
