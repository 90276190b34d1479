package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/collision-data-service/internal/config"
	"github.com/couchcryptid/collision-data-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes normalized collision records to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer   *kafkago.Writer
	logger   *slog.Logger
	loadedAt time.Time
}

// NewWriter creates a Kafka producer for the configured sink topic. loadedAt
// stamps every message with the time the dataset was loaded.
func NewWriter(cfg *config.Config, loadedAt time.Time, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSinkTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger, loadedAt: loadedAt}
}

// LoadBatch publishes records in a single WriteMessages call. Records are
// keyed by ID so re-exports of the same row land on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, records []domain.CollisionRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], w.loadedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages to %s: %w", len(msgs), w.writer.Topic, err)
	}
	w.logger.Debug("batch published", "topic", w.writer.Topic, "records", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(record domain.CollisionRecord, loadedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize collision record %s: %w", record.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(record.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "on_street_name", Value: []byte(record.OnStreetName)},
			{Key: "loaded_at", Value: []byte(loadedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
