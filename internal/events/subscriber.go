package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// SubscriberConfig holds configuration for consuming quiz events
type SubscriberConfig struct {
	KafkaBrokers  []string
	TopicName     string
	ConsumerGroup string
	Logger        *slog.Logger
}

// QuizEventHandler handles one decoded event. Returning an error nacks the
// message so it is redelivered.
type QuizEventHandler func(ctx context.Context, event *RawQuizEvent) error

// RawQuizEvent is a QuizEvent whose data is kept undecoded; consumers pick
// the payload type from Type.
type RawQuizEvent struct {
	QuizEvent
	Data json.RawMessage `json:"data"`
}

// NewKafkaEventSubscriber creates a Watermill subscriber for the quiz events topic
func NewKafkaEventSubscriber(config SubscriberConfig) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               config.KafkaBrokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
		ConsumerGroup:         config.ConsumerGroup,
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return subscriber, nil
}

// Consume reads the topic until ctx is done, acking each message its handler accepts.
func Consume(ctx context.Context, subscriber message.Subscriber, topic string, logger *slog.Logger, handle QuizEventHandler) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	for msg := range messages {
		event, err := DecodeQuizEvent(msg)
		if err != nil {
			// Undecodable messages would be redelivered forever
			logger.Error("Dropping malformed quiz event", "message_id", msg.UUID, "error", err)
			msg.Ack()
			continue
		}

		if err := handle(msg.Context(), event); err != nil {
			logger.Warn("Quiz event handler failed", "event_id", event.ID, "event_type", event.Type, "error", err)
			msg.Nack()
			continue
		}
		msg.Ack()
	}
	return ctx.Err()
}

// DecodeQuizEvent parses a message produced by PublishQuizEvent.
func DecodeQuizEvent(msg *message.Message) (*RawQuizEvent, error) {
	var event RawQuizEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz event: %w", err)
	}
	if event.Type == "" {
		event.Type = EventType(msg.Metadata.Get("event_type"))
	}
	if event.ID == "" {
		return nil, fmt.Errorf("quiz event without id")
	}
	return &event, nil
}
