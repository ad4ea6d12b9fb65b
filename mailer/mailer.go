// Package mailer wraps SMTP delivery of transactional mail. Handlers depend
// on the Mailer interface only, so tests substitute a recording fake and the
// custom-credential relay can build a one-off transport per request.
package mailer

import (
	"errors"
	"fmt"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	CC      string
	Subject string
	HTML    string
}

// Mailer delivers a single message. Send returns the Message-ID assigned to
// the mail, and an error on transport failure. Exactly one delivery attempt
// is made; there is no retry.
type Mailer interface {
	Send(msg Message) (string, error)
}

// SMTPMailer sends mail through a single SMTP account.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTP returns a Mailer bound to the given SMTP account.
func NewSMTP(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password}
}

// Send delivers the message. The connection is dialed per call; these are
// low-volume transactional sends, so holding a connection open buys nothing.
func (m *SMTPMailer) Send(msg Message) (string, error) {
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To)
	if msg.CC != "" {
		gm.SetHeader("Cc", msg.CC)
	}
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.host)
	gm.SetHeader("Message-ID", messageID)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(gm); err != nil {
		return "", fmt.Errorf("failed to send mail from %s: %w", msg.From, err)
	}
	return messageID, nil
}

// IsAuthError reports whether err is an SMTP authentication rejection
// (bad username or app password) rather than a general transport failure.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code == 535 || tpErr.Code == 534
	}
	msg := err.Error()
	return strings.Contains(msg, "535") || strings.Contains(msg, "Username and Password not accepted")
}
