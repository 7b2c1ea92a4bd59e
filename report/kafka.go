package report

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer used by KafkaSink
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes each summary as a JSON message keyed by grid size and thread count
type KafkaSink struct {
	writer messageWriter
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (sink *KafkaSink) Publish(ctx context.Context, s Summary) error {
	value, err := sonic.Marshal(s)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%dx%d-%d", s.Width, s.Height, s.Threads)
	if err = sink.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (sink *KafkaSink) Close() error {
	return sink.writer.Close()
}
