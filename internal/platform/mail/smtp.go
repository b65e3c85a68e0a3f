// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/logattr"
)

// # Transport Abstractions

// Client is the subset of [*smtp.Client] used to deliver one message.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Transport opens authenticated SMTP sessions.
type Transport interface {
	Connect(ctx context.Context) (Client, error)
	From() string
}

// ErrStartTLSUnsupported is returned when the server cannot upgrade to TLS.
var ErrStartTLSUnsupported = errors.New("smtp server does not support STARTTLS")

// SMTPTransport dials a real SMTP server.
type SMTPTransport struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPTransport(host, port, user, pass, from string) *SMTPTransport {
	return &SMTPTransport{host: host, port: port, user: user, pass: pass, from: from}
}

func (transport *SMTPTransport) From() string {
	return transport.from
}

/*
Connect dials the server, upgrades with STARTTLS and authenticates.

Returns:
  - Client: Ready to accept MAIL FROM
  - error: Dial, TLS or auth failure
*/
func (transport *SMTPTransport) Connect(ctx context.Context) (Client, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(transport.host, transport.port))
	if err != nil {
		return nil, fmt.Errorf("smtp_dial_failed: %w", err)
	}

	client, err := smtp.NewClient(conn, transport.host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("smtp_client_failed: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, ErrStartTLSUnsupported
	}
	if err := client.StartTLS(&tls.Config{ServerName: transport.host, MinVersion: tls.VersionTLS12}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("smtp_starttls_failed: %w", err)
	}

	if transport.user != "" {
		auth := smtp.PlainAuth("", transport.user, transport.pass, transport.host)
		if err := client.Auth(auth); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("smtp_auth_failed: %w", err)
		}
	}

	return client, nil
}

// # Notifier

// SMTPNotifier delivers each message over a fresh SMTP session.
type SMTPNotifier struct {
	transport Transport
	logger    *slog.Logger
}

func NewSMTPNotifier(transport Transport, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{transport: transport, logger: logger}
}

// Send implements [Notifier].
func (notifier *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	from := notifier.transport.From()
	payload := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	client, err := notifier.transport.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp_mail_from_failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp_rcpt_failed: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp_data_failed: %w", err)
	}
	if _, err := io.WriteString(writer, payload); err != nil {
		_ = writer.Close()
		return fmt.Errorf("smtp_write_failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp_write_failed: %w", err)
	}

	if err := client.Quit(); err != nil {
		notifier.logger.WarnContext(ctx, "smtp_quit_failed", logattr.Err(err))
	}

	notifier.logger.InfoContext(ctx, "mail_sent", slog.String("to", to), slog.String("driver", "smtp"))
	return nil
}
