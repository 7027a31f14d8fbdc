package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded event. A returned error skips the commit,
// but the reader still moves on: the message is only delivered again after
// the consumer restarts or the group rebalances.
type Handler func(context.Context, Event) error

const maxFetchBackOff = 10 * time.Second

type Consumer struct {
	reader  KafkaReader
	logger  *zap.Logger
	handler Handler
	// retry spaces out fetches after a failure.
	retry backoff.BackOff
}

func NewConsumer(brokers []string, topic, groupID string, logger *zap.Logger) *Consumer {
	return newConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
		Dialer:  kafka.DefaultDialer,
	}), logger)
}

func newConsumer(reader KafkaReader, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:  reader,
		logger:  logger.Named("kafka_consumer"),
		handler: func(context.Context, Event) error { return nil },
		retry:   fetchBackOff(),
	}
}

func fetchBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = maxFetchBackOff
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (c *Consumer) RegisterHandler(fn Handler) {
	c.handler = fn
}

// Run fetches, decodes and handles messages until ctx is cancelled or the
// reader is closed. Fetch failures are retried with exponential backoff.
func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			wait := c.retry.NextBackOff()
			if wait == backoff.Stop {
				wait = maxFetchBackOff
			}
			c.logger.Error("Failed to fetch message", zap.Error(err), zap.Duration("retry_in", wait))
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}
		c.retry.Reset()

		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error("Failed to parse event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			c.commit(ctx, msg, "")
			continue
		}

		if err := c.handler(ctx, event); err != nil {
			c.logger.Error("Failed to handle event",
				zap.Error(err),
				zap.String("event_type", string(event.Type)),
			)
			continue
		}

		c.commit(ctx, msg, event.Type)
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message, eventType EventType) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message",
			zap.Error(err),
			zap.String("event_type", string(eventType)),
		)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", zap.Error(err))
	}
}
