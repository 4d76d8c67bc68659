package smtp

import (
	"fmt"
	"net/smtp"

	"github.com/storefront-api/internal/config"
)

// Mailer sends HTML emails.
type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type mailer struct {
	host      string
	port      string
	from      string
	storeName string
	username  string
	password  string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		from:      cfg.SMTPFrom,
		storeName: cfg.StoreName,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
	}
}

func (m *mailer) SendEmail(to, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %q <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.storeName, m.from, to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
