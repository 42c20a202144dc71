package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"notifyhub/pkg/config"
	"notifyhub/pkg/otel"
	"notifyhub/pkg/trace"
)

type MessageHandler func(ctx context.Context, data json.RawMessage) error

type Consumer struct {
	channel    *amqp091.Channel
	queue      amqp091.Queue
	routingKey string
	handler    MessageHandler
	conn       *amqp091.Connection
	logger     *zap.Logger
}

// NewConsumer creates a consumer for a specific routing key.
func NewConsumer(cfg config.MQConfig, queueName, routingKey string, logger *zap.Logger) (*Consumer, error) {
	conn, ch, err := open(cfg, "consumer-"+queueName)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, ExchangeName, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	logger.Info("Consumer initialized",
		zap.String("routing_key", routingKey),
		zap.String("queue", queueName),
		zap.String("exchange", ExchangeName),
	)

	return &Consumer{
		conn:       conn,
		channel:    ch,
		queue:      q,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

func (c *Consumer) SetHandler(h MessageHandler) {
	c.handler = h
}

func (c *Consumer) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// StartConsuming blocks until ctx is cancelled or the delivery channel closes.
// Every message is either acked or nacked with requeue.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.handler == nil {
		return fmt.Errorf("consumer handler not set")
	}

	deliveries, err := c.channel.Consume(
		c.queue.Name,
		"",
		false, // 手动ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consumer started consuming messages",
		zap.String("routing_key", c.routingKey),
		zap.String("queue", c.queue.Name),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg amqp091.Delivery) {
	if traceID, ok := msg.Headers[trace.HeaderName].(string); ok && traceID != "" {
		ctx = trace.WithContext(ctx, traceID)
	}
	start := time.Now()

	ctx, span := otel.MQConsumeSpan(ctx, c.queue.Name, c.routingKey, msg.Headers)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Handler panic recovered",
				zap.String("routing_key", c.routingKey),
				zap.String("queue", c.queue.Name),
				zap.Any("panic", r),
			)
			if err := msg.Nack(false, true); err != nil {
				c.logger.Error("Failed to nack message after panic",
					zap.String("routing_key", c.routingKey),
					zap.Error(err),
				)
			}
		}
	}()

	if err := c.handler(ctx, msg.Body); err != nil {
		span.RecordError(err)
		c.logger.Error("Handler error",
			zap.String("routing_key", c.routingKey),
			zap.String("queue", c.queue.Name),
			zap.Error(err),
		)
		// 业务失败 → 拒绝消息并重新入队，让 MQ 重试
		if err := msg.Nack(false, true); err != nil {
			c.logger.Error("Failed to nack message",
				zap.String("routing_key", c.routingKey),
				zap.Error(err),
			)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("Failed to ack message",
			zap.String("routing_key", c.routingKey),
			zap.Error(err),
		)
		return
	}
	c.logger.Debug("Message processed successfully",
		zap.String("routing_key", c.routingKey),
		zap.Duration("took", time.Since(start)),
	)
}
