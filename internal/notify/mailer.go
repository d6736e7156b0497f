package notify

import (
	"context"
	"log"

	"github.com/wneessen/go-mail"
)

// Mailer sends one plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers mail over SMTP.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPMailer creates a mailer. user may be empty for unauthenticated
// relays.
func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Send composes and delivers a single message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(m.port)}
	if m.user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.user),
			mail.WithPassword(m.pass),
		)
	}
	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// NoopMailer logs instead of sending; the dev default.
type NoopMailer struct{}

// Send logs the would-be delivery and succeeds.
func (NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("mail skipped (MAIL_SKIP): to=%s subject=%s", to, subject)
	return nil
}
