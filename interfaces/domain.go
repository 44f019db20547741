package interfaces

import (
	"github.com/customeros/reportmailer/internal/models"
)

// DomainResolver maps a sender address to its outbound mail server.
type DomainResolver interface {
	Resolve(email string) (models.ServerSettings, error)
}
