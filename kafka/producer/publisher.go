package producer

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/accessmatrix/kafka"
)

// Publisher implements kafka.Publisher on a Producer.
type Publisher struct {
	producer *Producer
}

var _ kafka.Publisher = (*Publisher)(nil)

// NewPublisher wraps producer.
func NewPublisher(producer *Producer) *Publisher {
	return &Publisher{producer: producer}
}

// Publish sends event to topic as JSON.
func (p *Publisher) Publish(ctx context.Context, topic string, event kafka.Event, key ...string) error {
	msg, err := eventMessage(topic, event, key)
	if err != nil {
		return err
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Close shuts the producer down.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

func eventMessage(topic string, event kafka.Event, keys []string) (kafkago.Message, error) {
	data, err := event.ToJSON()
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafkago.Message{
		Topic: topic,
		Key:   []byte(partitionKey(event, keys)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event-id", Value: []byte(event.ID)},
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-source", Value: []byte(event.Source)},
			{Key: "content-type", Value: []byte(event.ContentType)},
		},
		Time: event.Timestamp,
	}, nil
}

func partitionKey(event kafka.Event, keys []string) string {
	if len(keys) > 0 && keys[0] != "" {
		return keys[0]
	}
	if event.Subject != "" {
		return event.Subject
	}
	return event.ID
}
