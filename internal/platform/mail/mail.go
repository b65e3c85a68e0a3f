// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers outgoing notifications such as password reset links.

Three drivers exist, selected by MAIL_DRIVER:

  - none: [NoopNotifier] logs and drops the message.
  - smtp: [SMTPNotifier] speaks SMTP with STARTTLS and PLAIN auth.
  - amqp: [QueueNotifier] publishes a JSON job for an out-of-process mailer.

Callers treat delivery as best-effort: a failed send is logged, never surfaced
to the person who asked for the mail.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/config"
)

// Notifier sends a single plain-text message.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Message is the payload handed to a transport.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// # No-op Driver

// NoopNotifier drops every message. It is the default when no driver is configured.
type NoopNotifier struct {
	logger *slog.Logger
}

func NewNoopNotifier(logger *slog.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

func (notifier *NoopNotifier) Send(ctx context.Context, to, subject, _ string) error {
	notifier.logger.InfoContext(ctx, "mail_dropped_no_driver",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// # Factory

/*
New builds the [Notifier] selected by cfg.MailDriver.

Returns:
  - Notifier: The configured driver
  - func(): Releases driver resources (the AMQP connection); never nil
  - error: If the driver cannot be initialised
*/
func New(cfg *config.Config, logger *slog.Logger) (Notifier, func(), error) {
	switch cfg.MailDriver {
	case config.MailDriverSMTP:
		transport := NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		return NewSMTPNotifier(transport, logger), func() {}, nil

	case config.MailDriverAMQP:
		queue, err := DialQueue(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			return nil, func() {}, fmt.Errorf("mail_queue_dial_failed: %w", err)
		}
		return queue, queue.Close, nil

	default:
		return NewNoopNotifier(logger), func() {}, nil
	}
}
