package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/nutrirec/internal/config"
	"github.com/temcen/nutrirec/pkg/models"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestEventPublisher_PublishRecommendation(t *testing.T) {
	writer := new(MockMessageWriter)
	publisher := NewEventPublisherWithWriter(writer, "food-recommendations", quietLogger())

	version := uuid.New()
	event := models.RecommendationEvent{
		Anchor:         "Nasi Goreng",
		Recommended:    []string{"Nasi Uduk"},
		TopN:           1,
		CatalogVersion: version,
	}

	var sent []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = args.Get(1).([]kafka.Message)
		}).
		Return(nil)

	err := publisher.PublishRecommendation(context.Background(), event)
	require.NoError(t, err)
	require.Len(t, sent, 1)

	msg := sent[0]
	assert.Equal(t, []byte("Nasi Goreng"), msg.Key)

	var decoded models.RecommendationEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.NotEqual(t, uuid.Nil, decoded.EventID)
	assert.False(t, decoded.Timestamp.IsZero())
	assert.Equal(t, []string{"Nasi Uduk"}, decoded.Recommended)
	assert.Equal(t, version, decoded.CatalogVersion)

	headers := make(map[string]string)
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, decoded.EventID.String(), headers["event_id"])
	assert.Equal(t, version.String(), headers["catalog_version"])

	writer.AssertExpectations(t)
}

func TestEventPublisher_KeepsProvidedIdentity(t *testing.T) {
	writer := new(MockMessageWriter)
	publisher := NewEventPublisherWithWriter(writer, "food-recommendations", quietLogger())

	eventID := uuid.New()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		var decoded models.RecommendationEvent
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		return decoded.EventID == eventID && decoded.Timestamp.Equal(ts)
	})).Return(nil)

	err := publisher.PublishRecommendation(context.Background(), models.RecommendationEvent{
		EventID:   eventID,
		Anchor:    "Salad",
		Timestamp: ts,
	})
	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestEventPublisher_WriteError(t *testing.T) {
	writer := new(MockMessageWriter)
	publisher := NewEventPublisherWithWriter(writer, "food-recommendations", quietLogger())

	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := publisher.PublishRecommendation(context.Background(), models.RecommendationEvent{Anchor: "Salad"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestEventPublisher_Close(t *testing.T) {
	writer := new(MockMessageWriter)
	writer.On("Close").Return(nil)

	publisher := NewEventPublisherWithWriter(writer, "food-recommendations", quietLogger())
	assert.NoError(t, publisher.Close())
	writer.AssertExpectations(t)
}

func TestNewEventPublisher_DefaultTopic(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	publisher := NewEventPublisher(cfg, quietLogger())
	assert.Equal(t, DefaultRecommendationsTopic, publisher.topic)
	assert.NoError(t, publisher.Close())
}
