package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/blockedby/jobtrends/internal/models"
)

// EventType names what happened to an application.
type EventType string

// EventType constants.
const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// ApplicationEvent is published after every successful mutation.
type ApplicationEvent struct {
	Type          EventType     `json:"type"`
	ApplicationID uuid.UUID     `json:"application_id"`
	Status        models.Status `json:"status,omitempty"`
	Change        string        `json:"change,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// EventPublisher delivers application events to subscribers.
type EventPublisher interface {
	PublishApplicationEvent(ctx context.Context, event ApplicationEvent) error
}
