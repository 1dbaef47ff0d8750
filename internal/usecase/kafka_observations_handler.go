package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SwingScan/internal/domain/models"
	domrepo "SwingScan/internal/domain/repository"
	pkgkafka "SwingScan/pkg/kafka"
)

// Enqueuer accepts observations for asynchronous evaluation.
type Enqueuer interface {
	Enqueue(obs *models.Observation) error
}

// KafkaObservationsHandler consumes intraday observation messages and
// feeds them into the evaluation pipeline. This is the batch-friendly
// alternative to the WebSocket stream: an upstream bar builder can
// publish closed hourly candles onto the topic.
type KafkaObservationsHandler struct {
	topic    string
	pipeline Enqueuer
	metrics  domrepo.Metrics
}

func NewKafkaObservationsHandler(topic string, pipeline Enqueuer, metrics domrepo.Metrics) *KafkaObservationsHandler {
	return &KafkaObservationsHandler{topic: topic, pipeline: pipeline, metrics: metrics}
}

func (h *KafkaObservationsHandler) Topic() string { return h.topic }

// incoming message schema: {s, t, p} with t in epoch seconds or ms
func (h *KafkaObservationsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"s"`
		T      int64   `json:"t"`
		P      float64 `json:"p"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode observation: %w", err)
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}

	obs := &models.Observation{
		Symbol:    m.Symbol,
		Timestamp: time.Unix(m.T, 0).UTC(),
		Price:     m.P,
	}
	if err := h.pipeline.Enqueue(obs); err != nil {
		h.metrics.RecordError("consumer_enqueue")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaObservationsHandler)(nil)
