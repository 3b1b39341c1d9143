package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/config"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/domain"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/history"
)

// Writer produces history entries to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one history entry and writes it to the snapshot topic.
func (w *Writer) Publish(ctx context.Context, entry domain.HistoryEntry) error {
	msg, err := serializeToMessage(entry)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a history entry into a Kafka message, keyed by
// its collection timestamp.
func serializeToMessage(entry domain.HistoryEntry) (kafkago.Message, error) {
	data, err := json.Marshal(entry.Snapshot)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(entry.Timestamp.Format(history.TimestampFormat)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "collected_at", Value: []byte(entry.Timestamp.Format(time.RFC3339))},
			{Key: "complete", Value: []byte(strconv.FormatBool(entry.Snapshot.Complete()))},
		},
	}, nil
}
