package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customeros/reportmailer/internal/enum"
	mailerrors "github.com/customeros/reportmailer/internal/errors"
)

func TestDomainResolver_Resolve(t *testing.T) {
	resolver := NewDomainResolver()

	tests := []struct {
		email string
		host  string
	}{
		{"me@gmail.com", "smtp.gmail.com"},
		{"me@yahoo.co.uk", "smtp.mail.yahoo.com"},
		{"me@outlook.com", "smtp.office365.com"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			server, err := resolver.Resolve(tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.host, server.Host)
			assert.Equal(t, 587, server.Port)
			assert.Equal(t, enum.EmailSecurityStartTLS, server.Security)
		})
	}
}

func TestDomainResolver_Resolve_NotSupported(t *testing.T) {
	resolver := NewDomainResolver()

	for _, email := range []string{
		"me@protonmail.com",
		"me@Gmail.com",
		"me@.com",
		"me@gmail",
		"gmail.com",
		"",
	} {
		t.Run(email, func(t *testing.T) {
			server, err := resolver.Resolve(email)
			assert.True(t, errors.Is(err, mailerrors.ErrUnsupportedEmailDomain))
			assert.True(t, server.IsZero())
		})
	}
}

func TestExtractProvider(t *testing.T) {
	provider, ok := ExtractProvider("a.b@outlook.fr")
	assert.True(t, ok)
	assert.Equal(t, enum.EmailProviderOutlook, provider)

	provider, ok = ExtractProvider("me@.com")
	assert.True(t, ok)
	assert.Equal(t, enum.EmailProvider(""), provider)

	_, ok = ExtractProvider("me.example.com")
	assert.False(t, ok)
}
