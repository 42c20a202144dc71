package otel

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MQHeaderCarrier 实现 TextMapCarrier，用于在 RabbitMQ 消息头中传递 trace context
type MQHeaderCarrier amqp091.Table

func (c MQHeaderCarrier) Get(key string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return ""
}

func (c MQHeaderCarrier) Set(key, value string) {
	c[key] = value
}

func (c MQHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// MQPublishSpan starts a producer span and injects its context into headers.
func MQPublishSpan(ctx context.Context, exchange, routingKey string, headers amqp091.Table) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "mq.publish "+routingKey,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination.name", exchange),
			attribute.String("messaging.rabbitmq.destination.routing_key", routingKey),
		),
	)
	otel.GetTextMapPropagator().Inject(ctx, MQHeaderCarrier(headers))
	return ctx, span
}

// MQConsumeSpan extracts the producer's context from headers and starts a
// consumer span under it.
func MQConsumeSpan(ctx context.Context, queue, routingKey string, headers amqp091.Table) (context.Context, trace.Span) {
	if headers != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, MQHeaderCarrier(headers))
	}
	return Tracer().Start(ctx, "mq.consume "+routingKey,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination.name", queue),
			attribute.String("messaging.rabbitmq.destination.routing_key", routingKey),
		),
	)
}
