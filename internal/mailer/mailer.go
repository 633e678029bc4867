// Package mailer sends notification mail through a configured SMTP relay.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (m *SMTP) Send(to, subject, body string) error {
	if to == "" || !strings.Contains(to, "@") {
		return fmt.Errorf("mailer: invalid recipient %q", to)
	}
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := m.Host + ":" + m.Port
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}
