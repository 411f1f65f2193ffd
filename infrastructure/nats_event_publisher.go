package infrastructure

import (
	"context"
	"fmt"
	"time"

	"courtside/events"
	"courtside/store"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps an event on the wire
type EventEnvelope struct {
	EventID       string              `json:"event_id"`
	EventType     events.EventType    `json:"event_type"`
	Timestamp     time.Time           `json:"timestamp"`
	SourceService string              `json:"source_service"`
	Payload       jsoniter.RawMessage `json:"payload"`
}

// NATSEventPublisher forwards committed bus events to NATS
type NATSEventPublisher struct {
	client MessagePublisher
	now    func() time.Time
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(client MessagePublisher) *NATSEventPublisher {
	return &NATSEventPublisher{
		client: client,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe forwards every type in ForwardedEventTypes from the bus
func (p *NATSEventPublisher) Subscribe(bus *events.Bus) {
	for _, eventType := range ForwardedEventTypes {
		bus.Subscribe(eventType, p.forward)
	}
	log.WithField("subjects", AllSubjects()).Info("Forwarding bus events to NATS")
}

func (p *NATSEventPublisher) forward(ctx context.Context, event events.Event) {
	if err := p.Publish(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to forward event to NATS")
	}
}

// Publish serializes event into an envelope and publishes it on its subject
func (p *NATSEventPublisher) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	now := p.now()
	envelope := EventEnvelope{
		EventID:       store.NewID(now),
		EventType:     event.Type(),
		Timestamp:     now,
		SourceService: "courtside",
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := MapEventToSubject(event)
	if err := p.client.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Published event to NATS")
	return nil
}
