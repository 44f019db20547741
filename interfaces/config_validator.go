package interfaces

import (
	"context"

	"github.com/customeros/reportmailer/internal/models"
)

type ConfigValidator interface {
	Validate(ctx context.Context, raw map[string]string, sender models.Credentials) (*models.ParameterSet, error)
}
