package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaProducer struct {
	brokers []string
	mu      sync.Mutex
	writers map[string]*kafka.Writer
	logger  *zap.Logger
}

type KafkaConsumer struct {
	brokers []string
	groupID string
	readers map[string]*kafka.Reader
	logger  *zap.Logger
}

func NewKafkaProducer(brokers []string, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
		logger:  logger,
	}
}

func NewKafkaConsumer(brokers []string, groupID string, logger *zap.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		brokers: brokers,
		groupID: groupID,
		readers: make(map[string]*kafka.Reader),
		logger:  logger,
	}
}

func (kp *KafkaProducer) GetWriter(topic string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(kp.brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	kp.writers[topic] = writer
	return writer
}

func (kp *KafkaProducer) SendMessage(ctx context.Context, topic string, key string, value interface{}) error {
	writer := kp.GetWriter(topic)

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
		Time:  time.Now(),
	}

	return writer.WriteMessages(ctx, message)
}

func (kp *KafkaProducer) Close() {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	for topic, writer := range kp.writers {
		if err := writer.Close(); err != nil {
			kp.logger.Warn("failed to close kafka writer", zap.String("topic", topic), zap.Error(err))
		}
	}
}

func (kc *KafkaConsumer) GetReader(topic string) *kafka.Reader {
	if reader, exists := kc.readers[topic]; exists {
		return reader
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kc.brokers,
		Topic:    topic,
		GroupID:  kc.groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	kc.readers[topic] = reader
	return reader
}

// ConsumeMessages blocks until ctx is cancelled, passing each message value
// to handler. Handler errors are logged and the message is skipped.
func (kc *KafkaConsumer) ConsumeMessages(ctx context.Context, topic string, handler func(context.Context, []byte) error) {
	reader := kc.GetReader(topic)

	for {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			kc.logger.Error("error reading message", zap.String("topic", topic), zap.Error(err))
			continue
		}

		if err := handler(ctx, message.Value); err != nil {
			kc.logger.Error("error handling message",
				zap.String("topic", topic),
				zap.String("key", string(message.Key)),
				zap.Int64("offset", message.Offset),
				zap.Error(err))
		}
	}
}

func (kc *KafkaConsumer) Close() {
	for _, reader := range kc.readers {
		reader.Close()
	}
}
