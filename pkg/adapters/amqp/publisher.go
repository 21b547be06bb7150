// Package amqp publishes finished-session events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/streadway/amqp"
)

// DefaultExchange is the topic exchange events are published to.
const DefaultExchange = "session_updates"

// Channel is the subset of *amqp.Channel used by the publisher.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements ports.EventPublisher.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       Channel
	exchange string
}

// Dial connects to the broker and declares the exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening channel: %w", err)
	}
	p, err := NewPublisher(ch, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares the exchange on an open channel.
func NewPublisher(ch Channel, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("error declaring exchange %s: %w", exchange, err)
	}
	return &Publisher{ch: ch, exchange: exchange}, nil
}

// RoutingKey returns the key events for a session are published under.
func RoutingKey(sessionID string) string {
	return "session." + sessionID
}

// Publish sends the event as JSON. Channels are not safe for concurrent publishing.
func (p *Publisher) Publish(ctx context.Context, event domain.SessionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Publish(p.exchange, RoutingKey(event.SessionID), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
		Body:         body,
	})
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
