package kafka

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/weather-risk-etl/internal/config"
	"github.com/couchcryptid/weather-risk-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes trigger envelopes from the trigger topic.
// It implements pipeline.TriggerExtractor.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the configured trigger topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaTriggerTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.FirstOffset,
	})
	return &Reader{reader: r, logger: logger}
}

// Extract blocks until the next trigger envelope is available or the context
// is cancelled. The returned message carries a Commit closure; the offset is
// only committed once the caller invokes it.
func (r *Reader) Extract(ctx context.Context) (domain.TriggerMessage, error) {
	msg, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return domain.TriggerMessage{}, err
	}
	return mapMessageToTrigger(msg, r.reader), nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToTrigger converts a Kafka message into a trigger message with a
// commit closure bound to the consumer group reader.
func mapMessageToTrigger(msg kafkago.Message, reader *kafkago.Reader) domain.TriggerMessage {
	return domain.TriggerMessage{
		Key:       msg.Key,
		Value:     msg.Value,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Commit: func(ctx context.Context) error {
			return reader.CommitMessages(ctx, msg)
		},
	}
}
