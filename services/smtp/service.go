package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/customeros/reportmailer/interfaces"
	"github.com/customeros/reportmailer/internal/enum"
	mailerrors "github.com/customeros/reportmailer/internal/errors"
	"github.com/customeros/reportmailer/internal/models"
	"github.com/customeros/reportmailer/internal/tracing"
)

type SMTPDialer struct {
	timeout time.Duration
}

func NewSMTPDialer(timeout time.Duration) *SMTPDialer {
	return &SMTPDialer{
		timeout: timeout,
	}
}

// Dial connects to the server, upgrades the connection with STARTTLS and
// authenticates. The connection is closed on every failure path.
func (d *SMTPDialer) Dial(ctx context.Context, server models.ServerSettings, credentials models.Credentials) (interfaces.SMTPSession, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "SMTPDialer.Dial")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogKV("smtp_server", server.Host)
	span.LogKV("smtp_port", server.Port)
	span.LogKV("smtp_username", credentials.Username)

	// Connect to the server without TLS first
	dialer := &net.Dialer{Timeout: d.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", server.Address())
	if err != nil {
		err = fmt.Errorf("failed to connect to SMTP server: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}
	// The handshake is bounded by the dial timeout unless ctx sets a deadline.
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		_ = conn.SetDeadline(deadline)
	} else if d.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(d.timeout))
	}

	// Create SMTP client
	client, err := smtp.NewClient(conn, server.Host)
	if err != nil {
		conn.Close()
		err = fmt.Errorf("failed to create SMTP client: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Start TLS
	if server.Security == enum.EmailSecurityStartTLS {
		tlsConfig := &tls.Config{
			ServerName: server.Host,
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			client.Close()
			err = fmt.Errorf("failed to start TLS: %w", err)
			tracing.TraceErr(span, err)
			return nil, err
		}
	}

	// Authenticate after TLS is established
	auth := smtp.PlainAuth("", credentials.Username, credentials.Password, server.Host)
	if err = client.Auth(auth); err != nil {
		client.Close()
		err = errors.Wrapf(mailerrors.ErrAuthenticationFailure, "%s: %v", credentials.Username, err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	if !hasDeadline {
		_ = conn.SetDeadline(time.Time{})
	}

	return &smtpSession{client: client}, nil
}

type smtpSession struct {
	client *smtp.Client
	closed bool
}

func (s *smtpSession) Send(from string, recipients []string, message []byte) error {
	if s.closed {
		return errors.New("SMTP session is closed")
	}

	// Set sender
	if err := s.client.Mail(from); err != nil {
		return fmt.Errorf("SMTP MAIL command failed: %w", err)
	}

	// Set recipients
	for _, recipient := range recipients {
		if err := s.client.Rcpt(recipient); err != nil {
			return fmt.Errorf("SMTP RCPT command failed for %s: %w", recipient, err)
		}
	}

	// Send data
	dataWriter, err := s.client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA command failed: %w", err)
	}

	if _, err = dataWriter.Write(message); err != nil {
		dataWriter.Close()
		return fmt.Errorf("failed to write email data: %w", err)
	}

	if err = dataWriter.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return nil
}

// Close quits the session and always releases the connection.
func (s *smtpSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.client.Quit(); err != nil {
		s.client.Close()
		return fmt.Errorf("SMTP QUIT command failed: %w", err)
	}
	return nil
}
