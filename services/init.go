package services

import (
	"github.com/spf13/afero"

	"github.com/customeros/reportmailer/config"
	"github.com/customeros/reportmailer/interfaces"
	"github.com/customeros/reportmailer/internal/logger"
	"github.com/customeros/reportmailer/services/domain"
	"github.com/customeros/reportmailer/services/email"
	"github.com/customeros/reportmailer/services/secrets"
	"github.com/customeros/reportmailer/services/smtp"
	"github.com/customeros/reportmailer/services/validator"
)

type Services struct {
	DomainResolver  interfaces.DomainResolver
	ConfigValidator interfaces.ConfigValidator
	EmailDispatcher interfaces.EmailDispatcher
	SecretStore     interfaces.SecretStore
}

func InitServices(cfg *config.Config, log logger.Logger) *Services {
	fs := afero.NewOsFs()
	dialer := smtp.NewSMTPDialer(cfg.SMTP.DialTimeout)
	resolver := domain.NewDomainResolver()

	return &Services{
		DomainResolver:  resolver,
		ConfigValidator: validator.NewConfigValidator(fs, resolver, log),
		EmailDispatcher: email.NewEmailDispatcher(fs, dialer, resolver, log),
		SecretStore: secrets.NewSecretStore(secrets.StoreConfig{
			Username:       cfg.Sender.Username,
			Password:       cfg.Sender.Password,
			KeyringService: cfg.Sender.KeyringService,
		}),
	}
}
