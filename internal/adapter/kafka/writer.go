// Package kafka publishes enriched dashboard events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafkago.Writer the Publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces one message per enriched event.
// It implements pipeline.Publisher.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes the batch and writes it in a single WriteMessages call.
// Messages are keyed by event id so updates to one event stay ordered.
func (p *Publisher) Publish(ctx context.Context, events []domain.EnrichedEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(msgs), err)
	}
	p.logger.Debug("published dashboard batch", "count", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an EnrichedEvent into a Kafka message.
func serializeToMessage(event domain.EnrichedEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize enriched event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "weather_status", Value: []byte(event.WeatherStatus)},
			{Key: "enriched_at", Value: []byte(event.EnrichedAt.Format(time.RFC3339))},
		},
	}, nil
}
