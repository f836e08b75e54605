package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/blockedby/jobtrends/internal/tracker"
)

// StreamName is the JetStream stream holding application events.
const StreamName = "applications"

// Subjects covered by StreamName.
var Subjects = []string{"applications.>"}

// NATSClient interface to allow mocking
type NATSClient interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher implements tracker.EventPublisher
type NATSPublisher struct {
	js NATSClient
}

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{js: conn}
}

// Subject returns the subject an event type is published on.
func Subject(t tracker.EventType) string {
	return "applications." + string(t)
}

// PublishApplicationEvent publishes an application change
func (p *NATSPublisher) PublishApplicationEvent(ctx context.Context, event tracker.ApplicationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.js.Publish(Subject(event.Type), data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
