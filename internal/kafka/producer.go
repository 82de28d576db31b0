package kafka

import (
	"context"
	"time"

	segmentio "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Producer interface {
	SendMessage(ctx context.Context, key, value []byte) error
	Close() error
}

// WriterProducer publishes to a Kafka topic via kafka-go.
type WriterProducer struct {
	writer *segmentio.Writer
}

func NewWriterProducer(brokers []string, topic string) *WriterProducer {
	return &WriterProducer{
		writer: &segmentio.Writer{
			Addr:         segmentio.TCP(brokers...),
			Topic:        topic,
			Balancer:     &segmentio.Hash{},
			RequiredAcks: segmentio.RequireOne,
			BatchTimeout: 100 * time.Millisecond,
		},
	}
}

func (p *WriterProducer) SendMessage(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, segmentio.Message{Key: key, Value: value})
}

func (p *WriterProducer) Close() error {
	return p.writer.Close()
}

// LogProducer stands in when no brokers are configured: audit
// entries land in the server log instead of a topic.
type LogProducer struct {
	logger *zap.Logger
}

func NewLogProducer(logger *zap.Logger) *LogProducer {
	return &LogProducer{logger: logger}
}

func (p *LogProducer) SendMessage(_ context.Context, key, value []byte) error {
	p.logger.Info("audit entry (log only)",
		zap.ByteString("key", key),
		zap.ByteString("value", value),
	)
	return nil
}

func (p *LogProducer) Close() error { return nil }

// NewProducer picks the real writer when brokers are configured.
func NewProducer(brokers []string, topic string, logger *zap.Logger) Producer {
	if len(brokers) == 0 {
		logger.Warn("kafka brokers not configured, audit entries will be logged")
		return NewLogProducer(logger)
	}
	return NewWriterProducer(brokers, topic)
}
