package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "config.ini", cfg.AppConfig.ReportConfigFile)
	assert.Equal(t, "reportmailer", cfg.Sender.KeyringService)
	assert.Equal(t, "email_logger.log", cfg.Logger.File)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 30*time.Second, cfg.SMTP.DialTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.DefaultInterval)
	assert.Equal(t, time.Minute, cfg.Scheduler.MaxSleep)
}

func TestInitConfig_FromEnvironment(t *testing.T) {
	t.Setenv("REPORT_CONFIG_FILE", "/etc/reports/weekly.ini")
	t.Setenv("EMAIL_USERNAME", "reports@outlook.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("SCHEDULER_DEFAULT_INTERVAL", "168h")
	t.Setenv("LOGGER_LEVEL", "debug")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "/etc/reports/weekly.ini", cfg.AppConfig.ReportConfigFile)
	assert.Equal(t, "reports@outlook.com", cfg.Sender.Username)
	assert.Equal(t, "app-password", cfg.Sender.Password)
	assert.Equal(t, 7*24*time.Hour, cfg.Scheduler.DefaultInterval)
	assert.Equal(t, "debug", cfg.Logger.LogLevel)
}

func TestInitConfig_InvalidDuration(t *testing.T) {
	t.Setenv("SMTP_DIAL_TIMEOUT", "soon")

	_, err := InitConfig()
	assert.Error(t, err)
}
