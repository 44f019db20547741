package domain

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/customeros/reportmailer/interfaces"
	"github.com/customeros/reportmailer/internal/enum"
	mailerrors "github.com/customeros/reportmailer/internal/errors"
	"github.com/customeros/reportmailer/internal/models"
)

// smtpServers is the only table of supported sender providers. Both
// validation and dispatch resolve through it.
var smtpServers = map[enum.EmailProvider]models.ServerSettings{
	enum.EmailProviderGmail:   {Host: "smtp.gmail.com", Port: 587, Security: enum.EmailSecurityStartTLS},
	enum.EmailProviderYahoo:   {Host: "smtp.mail.yahoo.com", Port: 587, Security: enum.EmailSecurityStartTLS},
	enum.EmailProviderOutlook: {Host: "smtp.office365.com", Port: 587, Security: enum.EmailSecurityStartTLS},
}

type domainResolver struct{}

func NewDomainResolver() interfaces.DomainResolver {
	return &domainResolver{}
}

func (r *domainResolver) Resolve(email string) (models.ServerSettings, error) {
	provider, ok := ExtractProvider(email)
	if !ok {
		return models.ServerSettings{}, errors.Wrapf(mailerrors.ErrUnsupportedEmailDomain, "malformed address %q", email)
	}

	server, ok := smtpServers[provider]
	if !ok {
		return models.ServerSettings{}, errors.Wrapf(mailerrors.ErrUnsupportedEmailDomain, "domain '%s' of %s", provider, email)
	}
	return server, nil
}

// ExtractProvider returns the text between '@' and the first '.' after it.
// The match against known providers is case-sensitive.
func ExtractProvider(email string) (enum.EmailProvider, bool) {
	atIndex := strings.Index(email, "@")
	if atIndex == -1 {
		return "", false
	}
	dotIndex := strings.Index(email[atIndex+1:], ".")
	if dotIndex == -1 {
		return "", false
	}
	return enum.EmailProvider(email[atIndex+1 : atIndex+1+dotIndex]), true
}
