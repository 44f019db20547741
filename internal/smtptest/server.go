// Package smtptest runs an in-process SMTP server for tests. It listens on
// 127.0.0.1 without TLS, accepts AUTH PLAIN for one account and records every
// accepted message.
package smtptest

import (
	"io"
	"log"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/customeros/reportmailer/internal/enum"
	"github.com/customeros/reportmailer/internal/models"
)

type Message struct {
	From string
	To   []string
	Data string
}

type Server struct {
	Username string
	Password string
	// RejectRecipient makes RCPT TO fail for this address
	RejectRecipient string

	server   *smtp.Server
	listener net.Listener

	mu       sync.Mutex
	messages []Message
	sessions int
	closed   int
}

// NewServer starts a server accepting username/password. It is stopped when
// the test finishes.
func NewServer(t testing.TB, username, password string) *Server {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("smtptest: listen: %v", err)
	}

	s := &Server{
		Username: username,
		Password: password,
		listener: listener,
	}
	s.server = smtp.NewServer(&backend{server: s})
	s.server.Domain = "localhost"
	s.server.ReadTimeout = 10 * time.Second
	s.server.WriteTimeout = 10 * time.Second
	s.server.AllowInsecureAuth = true
	s.server.ErrorLog = log.New(io.Discard, "", 0)

	go func() {
		_ = s.server.Serve(listener)
	}()
	t.Cleanup(s.Close)
	return s
}

// Settings returns plain-text server settings pointing at the server.
func (s *Server) Settings() models.ServerSettings {
	addr := s.listener.Addr().(*net.TCPAddr)
	return models.ServerSettings{
		Host:     "127.0.0.1",
		Port:     addr.Port,
		Security: enum.EmailSecurityNone,
	}
}

func (s *Server) Close() {
	_ = s.server.Close()
}

func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Sessions returns the number of sessions opened by a client greeting.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

// Closed returns the number of sessions that have ended, by QUIT or by the
// client dropping the connection.
func (s *Server) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type backend struct {
	server *Server
}

func (b *backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	b.server.mu.Lock()
	b.server.sessions++
	b.server.mu.Unlock()
	return &session{server: b.server}, nil
}

type session struct {
	server  *Server
	current Message
}

func (s *session) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *session) Auth(mech string) (sasl.Server, error) {
	if mech != sasl.Plain {
		return nil, smtp.ErrAuthUnsupported
	}
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != s.server.Username || password != s.server.Password {
			return &smtp.SMTPError{
				Code:         535,
				EnhancedCode: smtp.EnhancedCode{5, 7, 8},
				Message:      "Authentication credentials invalid",
			}
		}
		return nil
	}), nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.current = Message{From: from}
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	if to == s.server.RejectRecipient {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      "Mailbox unavailable",
		}
	}
	s.current.To = append(s.current.To, to)
	return nil
}

func (s *session) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.current.Data = string(data)

	s.server.mu.Lock()
	s.server.messages = append(s.server.messages, s.current)
	s.server.mu.Unlock()
	return nil
}

func (s *session) Reset() {
	s.current = Message{}
}

func (s *session) Logout() error {
	s.server.mu.Lock()
	s.server.closed++
	s.server.mu.Unlock()
	return nil
}
