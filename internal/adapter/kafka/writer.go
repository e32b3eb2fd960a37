package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/cerradowatch/fire-risk-chat/internal/config"
	"github.com/cerradowatch/fire-risk-chat/internal/domain"
)

// Writer publishes chat exchanges to a Kafka topic.
// It implements interpreter.ChatLogger.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured chat-log topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaChatLogTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Append serializes and publishes one chat exchange.
func (w *Writer) Append(ctx context.Context, entry domain.ChatEntry) error {
	msg, err := serializeToMessage(entry)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ChatEntry into a Kafka message. The key is
// the asked-at timestamp so replays of one session stay in partition order.
func serializeToMessage(entry domain.ChatEntry) (kafkago.Message, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize chat entry: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(entry.AskedAt.Format(time.RFC3339Nano)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "intent", Value: []byte(entry.Intent)},
		},
	}, nil
}
