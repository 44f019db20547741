package interfaces

import (
	"context"

	"github.com/customeros/reportmailer/internal/models"
)

type EmailDispatcher interface {
	TestLogin(ctx context.Context, params *models.ParameterSet) error
	SendAll(ctx context.Context, params *models.ParameterSet) []models.DispatchOutcome
}
