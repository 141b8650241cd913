package outbox

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher delivers a staged event to the downstream bus.
type Publisher interface {
	Publish(ctx context.Context, entry Entry) error
}

// KafkaPublisher publishes outbox entries to a Kafka topic. Records are
// keyed by aggregate id so every event for one aggregate lands on the same
// partition in order.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, entry Entry) error {
	payload, err := entry.WireFormat()
	if err != nil {
		return fmt.Errorf("encode outbox event %s: %w", entry.EventName, err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(entry.AggregateID),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish outbox event %s: %w", entry.EventName, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
