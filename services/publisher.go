package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/utils"
	"github.com/IBM/sarama"
)

// EventPublisher fans appended log entries out to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, entry models.PaymentLog) error
	Close() error
}

// PaymentEventMessage is the wire shape published for each log entry.
type PaymentEventMessage struct {
	ID            uint                    `json:"id"`
	TransactionID *uint                   `json:"transaction_id"`
	EventType     models.PaymentEventType `json:"event_type"`
	Message       string                  `json:"message"`
	Payload       json.RawMessage         `json:"payload,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

// KafkaPublisher writes payment events to a topic, keyed by transaction id
// so events for one transaction stay ordered within a partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducerConfig mirrors the producer settings the other services use.
func NewKafkaProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	return config
}

// NewKafkaPublisher dials brokers and returns a publisher for topic.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to kafka: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(_ context.Context, entry models.PaymentLog) error {
	value, err := json.Marshal(PaymentEventMessage{
		ID:            entry.ID,
		TransactionID: entry.TransactionID,
		EventType:     entry.EventType,
		Message:       entry.Message,
		Payload:       json.RawMessage(entry.Payload),
		CreatedAt:     entry.CreatedAt,
	})
	if err != nil {
		return utils.WrapError(err, "failed to marshal payment event")
	}

	key := "none"
	if entry.TransactionID != nil {
		key = strconv.FormatUint(uint64(*entry.TransactionID), 10)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return utils.WrapError(err, "failed to send payment event")
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
