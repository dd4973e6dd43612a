package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	sc "github.com/dmitrijs2005/contactbook/internal/server/config"
)

// Mailer sends the email-verification message. AccountService calls it from
// a background goroutine, so implementations must be safe for concurrent
// use.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, login, token string) error
}

// SMTPMailer delivers mail over SMTP. The confirmation link is built from
// the configured public base URL so it survives reverse proxies.
type SMTPMailer struct {
	client        *mail.Client
	from          string
	publicBaseURL string
}

func NewSMTPMailer(cfg *sc.Config) (*SMTPMailer, error) {
	options := []mail.Option{mail.WithPort(cfg.SMTPPort)}
	if cfg.SMTPUser != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, options...)
	if err != nil {
		return nil, err
	}

	return &SMTPMailer{
		client:        client,
		from:          cfg.SMTPFrom,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to, login, token string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/auth/confirmed_email/%s", m.publicBaseURL, token)

	msg.Subject("Confirm your email")
	msg.SetBodyString(mail.TypeTextPlain,
		fmt.Sprintf("Hi %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n", login, link))

	return m.client.DialAndSendWithContext(ctx, msg)
}
