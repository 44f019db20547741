package config

import "time"

type AppConfig struct {
	ReportConfigFile string `env:"REPORT_CONFIG_FILE" envDefault:"config.ini"`
	LocalDev         bool   `env:"LOCAL_DEV" envDefault:"false"`
}

// SenderConfig locates the account the reports are sent from. An empty
// Password means the password is read from the OS keyring.
type SenderConfig struct {
	Username       string `env:"EMAIL_USERNAME"`
	Password       string `env:"EMAIL_PASSWORD"`
	KeyringService string `env:"KEYRING_SERVICE" envDefault:"reportmailer"`
}

type SMTPConfig struct {
	DialTimeout time.Duration `env:"SMTP_DIAL_TIMEOUT" envDefault:"30s"`
}
