package smtp

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customeros/reportmailer/internal/enum"
	mailerrors "github.com/customeros/reportmailer/internal/errors"
	"github.com/customeros/reportmailer/internal/models"
	"github.com/customeros/reportmailer/internal/smtptest"
)

var credentials = models.Credentials{Username: "me@outlook.com", Password: "secret"}

func TestSMTPDialer_SendAndClose(t *testing.T) {
	server := smtptest.NewServer(t, credentials.Username, credentials.Password)
	dialer := NewSMTPDialer(5 * time.Second)

	session, err := dialer.Dial(context.Background(), server.Settings(), credentials)
	require.NoError(t, err)

	message := "Subject: Daily report\r\n\r\nHello\r\n"
	require.NoError(t, session.Send(credentials.Username, []string{"a@gmail.com"}, []byte(message)))
	require.NoError(t, session.Close())
	require.NoError(t, session.Close())

	messages := server.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, credentials.Username, messages[0].From)
	assert.Equal(t, []string{"a@gmail.com"}, messages[0].To)
	assert.Contains(t, messages[0].Data, "Subject: Daily report")

	assert.Eventually(t, func() bool { return server.Closed() == 1 }, time.Second, 10*time.Millisecond)
}

func TestSMTPDialer_TimeoutBoundsHandshakeOnly(t *testing.T) {
	server := smtptest.NewServer(t, credentials.Username, credentials.Password)
	dialer := NewSMTPDialer(200 * time.Millisecond)

	session, err := dialer.Dial(context.Background(), server.Settings(), credentials)
	require.NoError(t, err)
	defer session.Close()

	// a slow DATA phase outlives the dial timeout
	time.Sleep(400 * time.Millisecond)

	require.NoError(t, session.Send(credentials.Username, []string{"a@gmail.com"}, []byte("Subject: x\r\n\r\nx\r\n")))
	assert.Len(t, server.Messages(), 1)
}

func TestSMTPDialer_AuthenticationFailure(t *testing.T) {
	server := smtptest.NewServer(t, credentials.Username, "another-secret")
	dialer := NewSMTPDialer(5 * time.Second)

	session, err := dialer.Dial(context.Background(), server.Settings(), credentials)

	assert.Nil(t, session)
	assert.True(t, errors.Is(err, mailerrors.ErrAuthenticationFailure))
	assert.Contains(t, err.Error(), credentials.Username)
}

func TestSMTPDialer_StartTLSRefused(t *testing.T) {
	server := smtptest.NewServer(t, credentials.Username, credentials.Password)
	settings := server.Settings()
	settings.Security = enum.EmailSecurityStartTLS
	dialer := NewSMTPDialer(5 * time.Second)

	session, err := dialer.Dial(context.Background(), settings, credentials)

	assert.Nil(t, session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start TLS")
	assert.False(t, errors.Is(err, mailerrors.ErrAuthenticationFailure))
}

func TestSMTPDialer_ConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	_, err = NewSMTPDialer(time.Second).Dial(context.Background(), models.ServerSettings{Host: "127.0.0.1", Port: port}, credentials)

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to connect to SMTP server"))
}

func TestSMTPSession_RecipientRejected(t *testing.T) {
	server := smtptest.NewServer(t, credentials.Username, credentials.Password)
	server.RejectRecipient = "nobody@gmail.com"

	session, err := NewSMTPDialer(5*time.Second).Dial(context.Background(), server.Settings(), credentials)
	require.NoError(t, err)
	defer session.Close()

	err = session.Send(credentials.Username, []string{"nobody@gmail.com"}, []byte("Subject: x\r\n\r\nx\r\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP RCPT command failed for nobody@gmail.com")
	assert.Empty(t, server.Messages())
}

func TestSMTPSession_SendAfterClose(t *testing.T) {
	server := smtptest.NewServer(t, credentials.Username, credentials.Password)

	session, err := NewSMTPDialer(5*time.Second).Dial(context.Background(), server.Settings(), credentials)
	require.NoError(t, err)
	require.NoError(t, session.Close())

	assert.Error(t, session.Send(credentials.Username, []string{"a@gmail.com"}, []byte("x")))
}
