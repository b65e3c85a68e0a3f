// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"
)

// Publisher is satisfied by [*amqp.Channel].
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueNotifier hands messages to a mailer worker over RabbitMQ.
type QueueNotifier struct {
	publisher  Publisher
	exchange   string
	routingKey string
	logger     *slog.Logger
	conn       *amqp.Connection
}

// NewQueueNotifier wraps an already open channel.
func NewQueueNotifier(publisher Publisher, exchange, routingKey string, logger *slog.Logger) *QueueNotifier {
	return &QueueNotifier{publisher: publisher, exchange: exchange, routingKey: routingKey, logger: logger}
}

/*
DialQueue connects to the broker and declares a durable direct exchange.

Returns:
  - *QueueNotifier: Owns the connection; call Close on shutdown
  - error: Dial, channel or declare failure
*/
func DialQueue(url, exchange, routingKey string, logger *slog.Logger) (*QueueNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp_dial_failed: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp_channel_failed: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp_exchange_declare_failed: %w", err)
	}

	logger.Info("amqp_mail_queue_connected", slog.String("exchange", exchange))

	notifier := NewQueueNotifier(channel, exchange, routingKey, logger)
	notifier.conn = conn
	return notifier, nil
}

// Send implements [Notifier] by publishing a persistent JSON message.
func (notifier *QueueNotifier) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(Message{To: to, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("mail_queue_marshal_failed: %w", err)
	}

	err = notifier.publisher.Publish(notifier.exchange, notifier.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("mail_queue_publish_failed: %w", err)
	}

	notifier.logger.InfoContext(ctx, "mail_queued", slog.String("to", to), slog.String("driver", "amqp"))
	return nil
}

// Close releases the broker connection when the notifier owns one.
func (notifier *QueueNotifier) Close() {
	if notifier.conn == nil {
		return
	}
	if err := notifier.conn.Close(); err != nil {
		notifier.logger.Warn("amqp_close_failed", slog.String("error", err.Error()))
	}
}
