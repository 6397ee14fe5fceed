package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/logger"
)

// Routing keys of published events.
const (
	EventAnalysisCompleted = "analysis.completed"
	EventActivityLogged    = "activity.logged"
	EventUserRegistered    = "user.registered"
)

// Event is the JSON envelope published for downstream consumers.
type Event struct {
	Type       string                 `json:"type"`
	UserID     string                 `json:"user_id,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// EventPublisher announces domain events. Publishing is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewEventPublisher connects to RabbitMQ when RABBITMQ_URL is set and returns a no-op publisher otherwise.
func NewEventPublisher(cfg config.RabbitMQConfig) (EventPublisher, error) {
	if cfg.URL == "" {
		return noopPublisher{}, nil
	}
	return NewRabbitPublisher(cfg.URL, cfg.Exchange)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Close() error                         { return nil }

type rabbitPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewRabbitPublisher declares a durable topic exchange and publishes persistent JSON messages to it.
func NewRabbitPublisher(url, exchange string) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	logger.Info().Str("exchange", exchange).Msg("✅ Connected to RabbitMQ")
	return &rabbitPublisher{conn: conn, exchange: exchange, ch: ch}, nil
}

// Publish implements EventPublisher. A closed channel is reopened once.
func (p *rabbitPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		ch, err := p.conn.Channel()
		if err != nil {
			return fmt.Errorf("failed to reopen channel: %w", err)
		}
		p.ch = ch
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Close implements EventPublisher.
func (p *rabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		p.ch.Close()
	}
	return p.conn.Close()
}
