package interfaces

import (
	"context"

	"github.com/customeros/reportmailer/internal/models"
)

type SecretStore interface {
	Credentials(ctx context.Context) (models.Credentials, error)
}
