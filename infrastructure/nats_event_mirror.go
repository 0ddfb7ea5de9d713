package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventSubjectPrefix is prepended to the event type to form the subject
const EventSubjectPrefix = "bot.events"

const eventSource = "communitybot"

// ErrPublisherOffline is returned while the broker connection is down
var ErrPublisherOffline = errors.New("NATS publisher is offline")

// MessagePublisher sends raw bytes to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	IsConnected() bool
}

// EventEnvelope wraps a mirrored event
type EventEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
}

// NATSEventMirror forwards every in-process bus event to NATS
type NATSEventMirror struct {
	publisher MessagePublisher
	metrics   *observability.MetricsProvider
	now       func() time.Time
}

// NewNATSEventMirror creates a mirror. metrics may be nil.
func NewNATSEventMirror(publisher MessagePublisher, metrics *observability.MetricsProvider) *NATSEventMirror {
	return &NATSEventMirror{
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Attach subscribes the mirror to every event on bus
func (m *NATSEventMirror) Attach(bus *events.Bus) {
	bus.SubscribeAll(m.Handle)
}

// SubjectFor maps an event type to its NATS subject
func SubjectFor(eventType events.EventType) string {
	return EventSubjectPrefix + "." + string(eventType)
}

// Envelope wraps an event with a fresh id and timestamp
func (m *NATSEventMirror) Envelope(event events.Event) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &EventEnvelope{
		EventID:   uuid.New().String(),
		EventType: string(event.Type()),
		Timestamp: m.now().UTC(),
		Source:    eventSource,
		Payload:   payload,
	}, nil
}

// Handle publishes one event; failures are logged because the bus has no
// caller to return them to. Events raised while reconnecting are dropped.
func (m *NATSEventMirror) Handle(ctx context.Context, event events.Event) {
	err := m.publish(ctx, event)
	if errors.Is(err, ErrPublisherOffline) {
		log.WithField("eventType", event.Type()).Debug("NATS offline, event not mirrored")
		return
	}
	if err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to mirror event to NATS")
	}
}

func (m *NATSEventMirror) publish(ctx context.Context, event events.Event) error {
	if !m.publisher.IsConnected() {
		return ErrPublisherOffline
	}

	envelope, err := m.Envelope(event)
	if err != nil {
		return err
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := m.publisher.Publish(ctx, SubjectFor(event.Type()), data); err != nil {
		return err
	}

	m.metrics.RecordNATSMessagePublished(string(event.Type()))
	return nil
}
