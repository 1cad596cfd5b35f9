package event

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaJobPublisher enqueues SKU jobs. Messages are keyed by SKU so jobs
// for one SKU land on one partition in order.
type KafkaJobPublisher struct {
	writer messageWriter
	logger *zap.Logger
	now    func() time.Time
}

// NewKafkaJobPublisher creates a publisher writing to topic on brokers
func NewKafkaJobPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaJobPublisher {
	if topic == "" {
		topic = DefaultJobTopic
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaJobPublisher(writer, logger)
}

func newKafkaJobPublisher(writer messageWriter, logger *zap.Logger) *KafkaJobPublisher {
	return &KafkaJobPublisher{
		writer: writer,
		logger: logger.Named("publisher"),
		now:    time.Now,
	}
}

// Publish enqueues one job per SKU in a single write
func (p *KafkaJobPublisher) Publish(ctx context.Context, currency string, skus ...string) error {
	if len(skus) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(skus))
	for _, sku := range skus {
		payload, err := EncodeJobMessage(SKUJobMessage{SKU: sku, Currency: currency, RequestedAt: p.now().UTC()})
		if err != nil {
			return fmt.Errorf("encode job for %q: %w", sku, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(sku), Value: payload})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("Failed to publish sku jobs", zap.Int("count", len(msgs)), zap.Error(err))
		return fmt.Errorf("publish sku jobs: %w", err)
	}
	p.logger.Info("Published sku jobs", zap.Int("count", len(msgs)))
	return nil
}

// Close flushes and closes the writer
func (p *KafkaJobPublisher) Close() error {
	return p.writer.Close()
}
