package email

import (
	"time"

	"github.com/spf13/afero"

	"github.com/customeros/reportmailer/interfaces"
	"github.com/customeros/reportmailer/internal/logger"
	"github.com/customeros/reportmailer/internal/utils"
)

type emailDispatcher struct {
	fs       afero.Fs
	dialer   interfaces.SMTPDialer
	resolver interfaces.DomainResolver
	log      logger.Logger
	now      func() time.Time
}

func NewEmailDispatcher(
	fs afero.Fs,
	dialer interfaces.SMTPDialer,
	resolver interfaces.DomainResolver,
	log logger.Logger,
) interfaces.EmailDispatcher {
	return &emailDispatcher{
		fs:       fs,
		dialer:   dialer,
		resolver: resolver,
		log:      log,
		now:      utils.Now,
	}
}
