// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

/*
Package mail provides outbound email delivery for the Revory platform.

Its only production use today is sending confirmation codes during signup,
but the interface is deliberately generic so other notification types can
reuse the same transport.

Implementations:

  - SMTPMailer: Real delivery over SMTP (wneessen/go-mail).
  - LogMailer: Development fallback that writes messages to the log.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends a plain-text email to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// # SMTP Delivery

// SMTPMailer delivers email through an authenticated SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPMailer builds an SMTP-backed mailer.
//
// # Parameters
//   - host, port: SMTP relay address.
//   - username, password: PLAIN auth credentials.
//   - from: Sender address placed in the From header.
//   - logger: Structured logger for delivery events.
func NewSMTPMailer(host string, port int, username, password, from string, logger *slog.Logger) (*SMTPMailer, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to build smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   from,
		logger: logger,
	}, nil
}

// Send composes and delivers a plain-text message.
func (mailer *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	message := gomail.NewMsg()

	if err := message.From(mailer.from); err != nil {
		return fmt.Errorf("mail: invalid sender address: %w", err)
	}
	if err := message.To(to); err != nil {
		return fmt.Errorf("mail: invalid recipient address: %w", err)
	}

	message.Subject(subject)
	message.SetBodyString(gomail.TypeTextPlain, body)

	if err := mailer.client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("mail: delivery failed: %w", err)
	}

	mailer.logger.InfoContext(ctx, "email_sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)

	return nil
}

// # Development Fallback

// LogMailer writes would-be emails to the structured log instead of
// delivering them. Used when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer builds a log-only mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (mailer *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	mailer.logger.InfoContext(ctx, "email_logged",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
