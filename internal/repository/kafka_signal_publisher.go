package repository

import (
	"context"
	"fmt"

	"SwingScan/internal/domain/models"
	pkgkafka "SwingScan/pkg/kafka"
)

// KafkaSignalPublisher hands emitted signals to the alert dispatcher
// topic. Messages are keyed by symbol so one symbol's signals stay
// ordered on a single partition.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, sig *models.Signal) error {
	if sig == nil {
		return fmt.Errorf("signal is nil")
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(sig.Symbol), sig); err != nil {
		return fmt.Errorf("publish signal %s: %w", sig.ID, err)
	}
	return nil
}

func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}
