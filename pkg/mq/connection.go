package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"notifyhub/pkg/config"
)

// ExchangeName is the topic exchange every notifyhub event goes through.
const ExchangeName = "notifyhub.events"

// DialConfig names the connection after the process role so it can be told
// apart in the management UI.
func DialConfig(cfg config.MQConfig, role string) amqp091.Config {
	props := amqp091.NewConnectionProperties()
	props.SetClientConnectionName("notifyhub-" + role)
	return amqp091.Config{
		Heartbeat:  cfg.Heartbeat,
		Locale:     "en_US",
		Properties: props,
	}
}

// open dials the broker and returns a channel with the events exchange
// declared. On error nothing is left open.
func open(cfg config.MQConfig, role string) (*amqp091.Connection, *amqp091.Channel, error) {
	conn, err := amqp091.DialConfig(cfg.URL, DialConfig(cfg, role))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(ExchangeName, amqp091.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return conn, ch, nil
}
