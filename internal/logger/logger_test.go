package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestAppLogger_GetLoggerLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, NewAppLogger(&Config{LogLevel: "warn"}).getLoggerLevel())
	assert.Equal(t, zapcore.InfoLevel, NewAppLogger(&Config{LogLevel: "verbose"}).getLoggerLevel())
}

func TestAppLogger_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "email_logger.log")
	appLogger := NewAppLogger(&Config{LogLevel: "info", Encoder: "json", File: file})
	appLogger.InitLogger()

	appLogger.With(zap.String("run-id", "abc")).Infof("Email sent successfully to %s", "a@gmail.com")
	appLogger.Debug("not written")
	_ = appLogger.Logger().Sync()

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Email sent successfully to a@gmail.com")
	assert.Contains(t, string(content), `"run-id":"abc"`)
	assert.NotContains(t, string(content), "not written")
}
