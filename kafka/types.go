package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope of every message the service publishes.
type Event struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Source      string         `json:"source"`
	ContentType string         `json:"content_type"`
	Version     string         `json:"version"`
	Timestamp   time.Time      `json:"timestamp"`
	Subject     string         `json:"subject,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// NewEvent returns an event with a fresh ID and the current time.
func NewEvent(eventType, source, subject string, data map[string]any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		Source:      source,
		ContentType: "application/json",
		Version:     "1.0",
		Timestamp:   time.Now().UTC(),
		Subject:     subject,
		Data:        data,
	}
}

// ToJSON marshals the event.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher publishes events. The partition key is the first key given,
// else the event subject, else its ID.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event, key ...string) error
	Close() error
}
