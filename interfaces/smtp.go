package interfaces

import (
	"context"

	"github.com/customeros/reportmailer/internal/models"
)

// SMTPDialer opens an authenticated session with an outbound mail server.
type SMTPDialer interface {
	Dial(ctx context.Context, server models.ServerSettings, credentials models.Credentials) (SMTPSession, error)
}

// SMTPSession is an authenticated connection. Close must be called on every path.
type SMTPSession interface {
	Send(from string, recipients []string, message []byte) error
	Close() error
}
