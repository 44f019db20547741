package errors

import "github.com/pkg/errors"

var (
	// configuration errors, any of these discards the whole parameter set
	ErrConfigFileUnreadable   = errors.New("configuration file unreadable")
	ErrMissingRecipients      = errors.New("client email missing")
	ErrInvalidOrPastSchedule  = errors.New("invalid or past schedule")
	ErrInvalidRecurrence      = errors.New("invalid recurrence")
	ErrMissingReportFile      = errors.New("report file not found")
	ErrMissingCredentials     = errors.New("sender credentials missing")
	ErrUnsupportedEmailDomain = errors.New("email domain not supported")

	// session errors
	ErrAuthenticationFailure = errors.New("authentication failure")

	// per-recipient errors, recovered inside a dispatch run
	ErrRecipientDispatchFailure = errors.New("recipient dispatch failure")
	ErrAttachmentIOFailure      = errors.New("attachment io failure")
)

// IsConfigurationError reports whether err invalidates the report configuration.
func IsConfigurationError(err error) bool {
	for _, target := range []error{
		ErrConfigFileUnreadable,
		ErrMissingRecipients,
		ErrInvalidOrPastSchedule,
		ErrInvalidRecurrence,
		ErrMissingReportFile,
		ErrMissingCredentials,
		ErrUnsupportedEmailDomain,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type recipientDispatchError struct {
	cause error
}

// RecipientDispatchFailure classifies cause as ErrRecipientDispatchFailure
// while keeping cause reachable through errors.Is and errors.As.
func RecipientDispatchFailure(cause error) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&recipientDispatchError{cause: cause})
}

func (e *recipientDispatchError) Error() string {
	return ErrRecipientDispatchFailure.Error() + ": " + e.cause.Error()
}

func (e *recipientDispatchError) Unwrap() []error {
	return []error{ErrRecipientDispatchFailure, e.cause}
}
