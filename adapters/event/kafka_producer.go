package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/internal/config"
	"github.com/scolardf/devconnector/pkg/logger"
)

const TopicProfileEvents = "profile.events"

// KafkaProducerClient publishes profile events keyed by user id so that
// every event for one account lands on the same partition.
type KafkaProducerClient struct {
	ProfileEventsWriter *kafka.Writer
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	profileWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        TopicProfileEvents,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))
	return &KafkaProducerClient{ProfileEventsWriter: profileWriter, logger: log}, nil
}

func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, ev service.ProfileEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal profile event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.UserID.String()),
		Value: value,
	}
	if err := c.ProfileEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write profile event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		if err := c.ProfileEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishProfileEvent(context.Context, service.ProfileEvent) error { return nil }

// DecodeProfileEvent parses a message value written by PublishProfileEvent.
func DecodeProfileEvent(value []byte) (service.ProfileEvent, error) {
	var ev service.ProfileEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return service.ProfileEvent{}, fmt.Errorf("unmarshal profile event: %w", err)
	}
	return ev, nil
}
