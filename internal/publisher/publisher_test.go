package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/jobtrends/internal/models"
	"github.com/blockedby/jobtrends/internal/tracker"
)

// MockNATSClient mocks the nats client operations we need
type MockNATSClient struct {
	PublishedSubject string
	PublishedData    []byte
	PublishError     error
}

func (m *MockNATSClient) Publish(subject string, data []byte) error {
	m.PublishedSubject = subject
	m.PublishedData = data
	return m.PublishError
}

func TestNATSPublisher_PublishApplicationEvent(t *testing.T) {
	tests := []struct {
		eventType tracker.EventType
		subject   string
	}{
		{tracker.EventCreated, "applications.created"},
		{tracker.EventUpdated, "applications.updated"},
		{tracker.EventDeleted, "applications.deleted"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			mock := &MockNATSClient{}
			pub := &NATSPublisher{js: mock}

			event := tracker.ApplicationEvent{
				Type:          tt.eventType,
				ApplicationID: uuid.New(),
				Status:        models.StatusScreening,
				OccurredAt:    time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC),
			}

			require.NoError(t, pub.PublishApplicationEvent(context.Background(), event))
			assert.Equal(t, tt.subject, mock.PublishedSubject)

			var decoded tracker.ApplicationEvent
			require.NoError(t, json.Unmarshal(mock.PublishedData, &decoded))
			assert.Equal(t, event, decoded)
		})
	}
}

func TestNATSPublisher_PublishError(t *testing.T) {
	mock := &MockNATSClient{PublishError: errors.New("nats: connection closed")}
	pub := &NATSPublisher{js: mock}

	err := pub.PublishApplicationEvent(context.Background(), tracker.ApplicationEvent{Type: tracker.EventCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish event")
}

func TestSubjectsCoverEveryEvent(t *testing.T) {
	for _, et := range []tracker.EventType{tracker.EventCreated, tracker.EventUpdated, tracker.EventDeleted} {
		assert.Contains(t, Subject(et), "applications.")
	}
	assert.Equal(t, []string{"applications.>"}, Subjects)
}

var _ tracker.EventPublisher = (*NATSPublisher)(nil)
