package event

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageReader is the part of kafka.Reader the consumer uses
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// JobHandler processes one SKU job. The message is committed after the
// handler returns, whatever the outcome; a failed SKU is logged, not redelivered.
type JobHandler interface {
	HandleJob(ctx context.Context, msg SKUJobMessage) error
}

// JobHandlerFunc adapts a function to JobHandler
type JobHandlerFunc func(ctx context.Context, msg SKUJobMessage) error

// HandleJob implements JobHandler
func (f JobHandlerFunc) HandleJob(ctx context.Context, msg SKUJobMessage) error {
	return f(ctx, msg)
}

// KafkaJobConsumer reads SKU jobs from a consumer group
type KafkaJobConsumer struct {
	reader  messageReader
	handler JobHandler
	logger  *zap.Logger
}

// NewKafkaJobConsumer creates a consumer in groupID reading topic
func NewKafkaJobConsumer(brokers []string, topic, groupID string, handler JobHandler, logger *zap.Logger) *KafkaJobConsumer {
	if topic == "" {
		topic = DefaultJobTopic
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		MaxWait:        time.Second,
	})
	return newKafkaJobConsumer(reader, handler, logger)
}

func newKafkaJobConsumer(reader messageReader, handler JobHandler, logger *zap.Logger) *KafkaJobConsumer {
	return &KafkaJobConsumer{
		reader:  reader,
		handler: handler,
		logger:  logger.Named("consumer"),
	}
}

// Run consumes until ctx is done, then closes the reader
func (c *KafkaJobConsumer) Run(ctx context.Context) error {
	c.logger.Info("Job consumer started")
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Warn("Failed to close reader", zap.Error(err))
		}
		c.logger.Info("Job consumer stopped")
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to commit message",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *KafkaJobConsumer) process(ctx context.Context, msg kafka.Message) {
	log := c.logger.With(zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))

	job, err := DecodeJobMessage(msg.Value)
	if err != nil {
		log.Warn("Dropping malformed job message", zap.ByteString("payload", msg.Value), zap.Error(err))
		return
	}
	if err := c.handler.HandleJob(ctx, job); err != nil {
		log.Warn("Job failed", zap.String("sku", job.SKU), zap.Error(err))
	}
}
