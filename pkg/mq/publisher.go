package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rabbitmq/amqp091-go"

	"notifyhub/pkg/config"
	"notifyhub/pkg/otel"
	"notifyhub/pkg/trace"
)

type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	mu      sync.Mutex // amqp channels are not safe for concurrent publishes
}

func NewPublisher(cfg config.MQConfig) (*Publisher, error) {
	conn, ch, err := open(cfg, "publisher")
	if err != nil {
		return nil, err
	}
	return &Publisher{
		conn:    conn,
		channel: ch,
	}, nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// IsConnected checks if the publisher connection is still alive
func (p *Publisher) IsConnected() bool {
	if p.conn == nil || p.channel == nil {
		return false
	}
	return !p.conn.IsClosed()
}

// Publish publishes an event to the exchange with the given routing key.
// The trace id on ctx, if any, travels in the message headers.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", routingKey, err)
	}

	headers := amqp091.Table{}
	if traceID := trace.FromContext(ctx); traceID != "" {
		headers[trace.HeaderName] = traceID
	}
	ctx, span := otel.MQPublishSpan(ctx, ExchangeName, routingKey, headers)

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Headers:      headers,
		},
	)
	otel.EndSpan(span, err)
	return err
}
