// Package kafka publishes per-cycle aggregated zip outage snapshots for
// downstream consumers that want a stream instead of polling the tables.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// Writer produces aggregated zip records to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the snapshot topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshot serializes and publishes the cycle's aggregated zip
// records in a single WriteMessages call. Records are keyed by zip code
// so a compacted topic retains the latest state per zip.
func (w *Writer) PublishSnapshot(ctx context.Context, records []domain.AggregatedZipRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish zip snapshot: %w", err)
	}
	w.logger.Info("zip snapshot published", "records", len(records))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an aggregated zip record into a Kafka message.
func serializeToMessage(record domain.AggregatedZipRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize zip record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(record.Zip),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "provider", Value: []byte(record.Provider)},
			{Key: "updated_at", Value: []byte(record.DateUpdated.Format(time.RFC3339))},
		},
	}, nil
}
