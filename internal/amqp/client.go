// Package amqp relays notification events between API instances through a
// RabbitMQ topic exchange, so a push reaches subscribers connected to any
// instance.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/fundsio/funds/internal/notification"
)

const publishTimeout = 5 * time.Second

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
}

func NewClient(url, exchangeName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return client, nil
}

// Publish implements notification.Publisher. Failures are logged because
// the persisted notification stays the source of truth.
func (c *Client) Publish(ctx context.Context, ownerID uuid.UUID, n *notification.Notification) {
	body, err := encodeEvent(n)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode notification event", "error", err, "notification_id", n.ID)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName,      // exchange
		RoutingKey(ownerID), // routing key
		false,               // mandatory
		false,               // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish notification event", "error", err, "notification_id", n.ID, "owner_id", ownerID)
		return
	}

	slog.DebugContext(ctx, "published notification event", "notification_id", n.ID, "exchange", c.exchangeName)
}

// Relay binds an exclusive queue to every owner's routing key and hands each
// received notification to local. It returns when ctx is done or the
// delivery channel closes.
func (c *Client) Relay(ctx context.Context, local notification.Publisher) error {
	q, err := c.channel.QueueDeclare(
		"",    // name, server generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(q.Name, routingPrefix+"*", c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer
		true,   // auto-ack, pushes are best-effort
		true,   // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "relaying notification events", "exchange", c.exchangeName, "queue", q.Name)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			handleDelivery(ctx, local, delivery.RoutingKey, delivery.Body)
		}
	}
}

func handleDelivery(ctx context.Context, local notification.Publisher, routingKey string, body []byte) {
	ownerID, err := OwnerFromRoutingKey(routingKey)
	if err != nil {
		slog.WarnContext(ctx, "skipping notification event", "error", err)
		return
	}

	n, err := decodeEvent(body)
	if err != nil {
		slog.WarnContext(ctx, "skipping malformed notification event", "error", err, "owner_id", ownerID)
		return
	}

	local.Publish(ctx, ownerID, n)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}

	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}
