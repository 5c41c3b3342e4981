// Package mail implements the SMTP mail dispatcher.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"mailauth/internal/config"
	"mailauth/internal/domain"
)

type SMTPDispatcher struct {
	client *gomail.Client
	from   string
}

func NewSMTPDispatcher(cfg *config.Config) (*SMTPDispatcher, error) {
	client, err := gomail.NewClient(cfg.SMTPHost,
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.MailUsername),
		gomail.WithPassword(cfg.MailPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPDispatcher{
		client: client,
		from:   cfg.MailFrom,
	}, nil
}

// Send delivers one message through the relay. One attempt per call.
func (d *SMTPDispatcher) Send(ctx context.Context, msg domain.MailMessage) error {
	m := gomail.NewMsg()
	if err := m.From(d.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	m.Subject(msg.Subject)
	if msg.HTML {
		m.SetBodyString(gomail.TypeTextHTML, msg.Body)
	} else {
		m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	}

	if err := d.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
