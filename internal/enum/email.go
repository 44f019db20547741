package enum

// EmailProvider is the provider token taken from the sender's email domain,
// e.g. "gmail" for me@gmail.com.
type EmailProvider string

const (
	EmailProviderGmail   EmailProvider = "gmail"
	EmailProviderYahoo   EmailProvider = "yahoo"
	EmailProviderOutlook EmailProvider = "outlook"
)

func (t EmailProvider) String() string {
	return string(t)
}

type EmailSecurity string

const (
	EmailSecurityNone     EmailSecurity = "none"
	EmailSecurityStartTLS EmailSecurity = "startTLS"
)

func (t EmailSecurity) String() string {
	return string(t)
}

type DispatchStatus string

const (
	DispatchStatusSent   DispatchStatus = "sent"
	DispatchStatusFailed DispatchStatus = "failed"
)

func (t DispatchStatus) String() string {
	return string(t)
}
