package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventsExchange is the topic exchange session events are published to
const EventsExchange = "quiz.events"

// routingKeys maps event names to exchange routing keys
var routingKeys = map[string]string{
	EventSessionStarted:    "session.started",
	EventSessionAnswered:   "session.answered",
	EventAnalysisCompleted: "analysis.completed",
	EventAnalysisFailed:    "analysis.failed",
}

// RoutingKey returns the routing key of an event
func RoutingKey(event string) string {
	if key, ok := routingKeys[event]; ok {
		return key
	}
	return "session." + event
}

// EventMessage is the body of a published event
type EventMessage struct {
	SessionID  string      `json:"sessionId"`
	Event      string      `json:"event"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// amqpChannel is the part of *amqp.Channel the publisher needs
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes session events to the quiz.events exchange
type RabbitPublisher struct {
	conn    *amqp.Connection
	channel amqpChannel
	timeout time.Duration
	logger  *zap.Logger
}

// NewRabbitPublisher dials the broker and declares the events exchange
func NewRabbitPublisher(url string, logger *zap.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	p := newRabbitPublisher(ch, logger)
	p.conn = conn
	return p, nil
}

func newRabbitPublisher(ch amqpChannel, logger *zap.Logger) *RabbitPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RabbitPublisher{
		channel: ch,
		timeout: 5 * time.Second,
		logger:  logger.Named("events"),
	}
}

// Publish sends the event. Failures are logged, never returned.
func (p *RabbitPublisher) Publish(sessionID string, event string, payload interface{}) {
	body, err := json.Marshal(&EventMessage{
		SessionID:  sessionID,
		Event:      event,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		p.logger.Warn("encode event", zap.String("event", event), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, EventsExchange, RoutingKey(event), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		p.logger.Warn("publish event",
			zap.String("event", event),
			zap.String("sessionId", sessionID),
			zap.Error(err))
	}
}

// Close closes the channel and connection
func (p *RabbitPublisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
