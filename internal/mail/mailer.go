// Package mail delivers outbound email. The auth flows depend only on
// the Mailer interface; SMTPMailer is the one concrete transport.
package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends a message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail over plain SMTP with AUTH PLAIN credentials.
type SMTPMailer struct {
	Server   string // host:port
	User     string
	Password string
	FromName string
}

// NewSMTPMailer returns a mailer for the given server and credentials.
func NewSMTPMailer(server, user, password, fromName string) *SMTPMailer {
	return &SMTPMailer{Server: server, User: user, Password: password, FromName: fromName}
}

func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	if m.Server == "" || m.User == "" || m.Password == "" {
		return fmt.Errorf("SMTP configuration is not set")
	}

	host, port, err := net.SplitHostPort(m.Server)
	if err != nil {
		return fmt.Errorf("invalid SMTP server format (expected host:port): %w", err)
	}

	auth := smtp.PlainAuth("", m.User, m.Password, host)

	body := []byte("From: " + m.FromName + " <" + m.User + ">\r\n" +
		"To: " + msg.To + "\r\n" +
		"Subject: " + msg.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		msg.HTML + "\r\n")

	if err := smtp.SendMail(m.Server, auth, m.User, []string{msg.To}, body); err != nil {
		return fmt.Errorf("failed to send email via %s:%s - %w", host, port, err)
	}
	return nil
}
