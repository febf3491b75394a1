package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// confirmationTemplate is the body of the address-confirmation mail.
var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<html>
<body>
<p>Hi {{.Username}},</p>
<p>Please confirm your email address by following this link:</p>
<p><a href="{{.Link}}">Confirm email</a></p>
<p>If you did not sign up, you can ignore this message.</p>
</body>
</html>`))

// RenderConfirmationEmail builds the subject and HTML body of the
// confirmation mail for a freshly issued email token.
func RenderConfirmationEmail(username, baseURL, token string) (subject, body string, err error) {
	var buf bytes.Buffer
	data := struct {
		Username string
		Link     string
	}{
		Username: username,
		Link:     fmt.Sprintf("%s/api/auth/confirmed_email/%s", baseURL, token),
	}
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return "Confirm your email", buf.String(), nil
}

// EmailSender delivers a single mail. Delivery is fire-and-forget from the
// caller's point of view: failures are logged by the queue consumer, never
// surfaced to the HTTP client.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through a plain-auth SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers a single HTML mail.
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.cfg.From, to, subject, htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
