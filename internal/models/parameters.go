package models

import (
	"net"
	"strconv"
	"time"

	"github.com/customeros/reportmailer/internal/enum"
)

// ServerSettings is the outbound mail server for a sender.
type ServerSettings struct {
	Host     string
	Port     int
	Security enum.EmailSecurity
}

func (s ServerSettings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func (s ServerSettings) IsZero() bool {
	return s.Host == "" && s.Port == 0
}

// Credentials identify the sender on the outbound server. Username is the
// sender's email address.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) IsComplete() bool {
	return c.Username != "" && c.Password != ""
}

// ParameterSet is a validated report configuration. It is built once by the
// config validator and treated as read-only afterwards.
type ParameterSet struct {
	Recipients  []string
	ScheduleAt  time.Time
	Recurrence  string
	ReportPaths []string
	Subject     string
	Body        string
	Server      ServerSettings
	Sender      Credentials
}
