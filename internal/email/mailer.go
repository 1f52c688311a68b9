// Package email defines the outbound email transport used for confirmation
// mail, the newsletter, and admin reports.
package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Message is a single outbound email.
type Message struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	From    string   `json:"from"`
	To      []string `json:"to"`
}

// Mailer sends a message or returns a transport error.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	Addr string // host:port
}

// NewSMTPMailer creates a mailer talking to the given relay address.
func NewSMTPMailer(addr string) *SMTPMailer {
	return &SMTPMailer{Addr: addr}
}

// Send delivers the message via SMTP.
func (m *SMTPMailer) Send(msg Message) error {
	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		msg.From, strings.Join(msg.To, ", "), msg.Subject, msg.Body)
	if err := smtp.SendMail(m.Addr, nil, msg.From, msg.To, []byte(payload)); err != nil {
		return fmt.Errorf("failed to send email %q: %w", msg.Subject, err)
	}
	return nil
}

// LogMailer logs messages instead of sending them. Used in development and
// whenever no SMTP relay is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message and always succeeds.
func (m *LogMailer) Send(msg Message) error {
	m.logger.Info("email (not sent, no relay configured)",
		zap.String("subject", msg.Subject),
		zap.Strings("to", msg.To))
	return nil
}
