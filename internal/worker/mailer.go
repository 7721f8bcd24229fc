package worker

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"goabroad/internal/config"
)

// Sender delivers a single plain-text email. Task handlers depend on this
// interface so tests can capture outgoing mail.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Mailer sends mail through the configured SMTP relay.
type Mailer struct {
	client *mail.Client
	from   string
}

// NewMailer constructs an SMTP mailer. Authentication is enabled only when a
// username is configured.
func NewMailer(cfg config.MailConfig) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &Mailer{client: client, from: cfg.From}, nil
}

// Send delivers one message and returns once the relay accepts it.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
