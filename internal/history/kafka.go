package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// DefaultTopic receives assessment entries when no topic is configured.
const DefaultTopic = "riskscope.assessments"

// Bounds on a single publish, so an unreachable broker fails fast.
const (
	kafkaMaxAttempts  = 3
	kafkaWriteTimeout = 2 * time.Second
)

// KafkaPublisher is a write-only Sink that publishes each entry as a JSON
// message keyed by condition id.
type KafkaPublisher struct {
	writer *kafkago.Writer
}

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
			MaxAttempts:  kafkaMaxAttempts,
			WriteTimeout: kafkaWriteTimeout,
		},
	}
}

func (p *KafkaPublisher) Append(ctx context.Context, e Entry) error {
	msg, err := encodeMessage(e)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("history: kafka publish to %s: %w", p.writer.Topic, err)
	}
	return nil
}

// Name identifies the publisher in fan-out errors.
func (p *KafkaPublisher) Name() string {
	return "kafka:" + p.writer.Topic
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encodeMessage(e Entry) (kafkago.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("history: encode entry %s: %w", e.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(e.ConditionID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "entry_id", Value: []byte(e.ID)},
			{Key: "tier", Value: []byte(e.Tier)},
		},
		Time: e.Timestamp,
	}, nil
}
