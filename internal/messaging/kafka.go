package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/config"
	"github.com/temcen/nutrirec/pkg/models"
)

const DefaultRecommendationsTopic = "food-recommendations"

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher emits a recommendation-served event for every answered
// recommendation request.
type EventPublisher struct {
	writer  MessageWriter
	topic   string
	timeout time.Duration
	logger  *logrus.Logger
}

func NewEventPublisher(cfg *config.Config, logger *logrus.Logger) *EventPublisher {
	topic := cfg.Kafka.Topics.Recommendations
	if topic == "" {
		topic = DefaultRecommendationsTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Key by anchor so one food's events stay ordered
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return NewEventPublisherWithWriter(writer, topic, logger)
}

func NewEventPublisherWithWriter(writer MessageWriter, topic string, logger *logrus.Logger) *EventPublisher {
	return &EventPublisher{
		writer:  writer,
		topic:   topic,
		timeout: 10 * time.Second,
		logger:  logger,
	}
}

func (p *EventPublisher) PublishRecommendation(ctx context.Context, event models.RecommendationEvent) error {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.Anchor),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID.String())},
			{Key: "catalog_version", Value: []byte(event.CatalogVersion.String())},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		p.logger.WithError(err).WithField("event_id", event.EventID).Error("Failed to publish recommendation event")
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"anchor":   event.Anchor,
		"topic":    p.topic,
	}).Debug("Recommendation event published")

	return nil
}

func (p *EventPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	return nil
}
