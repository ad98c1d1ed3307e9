package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// EventOrderPlaced is the event type written for every submitted order.
const EventOrderPlaced = "order.placed"

// OrderEvent is the payload published for a placed order.
type OrderEvent struct {
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurredAt"`
	Order      domain.Order `json:"order"`
}

// KafkaPublisher publishes order events with a synchronous producer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
	now      func() time.Time
}

// NewKafkaConfig returns the producer settings used for order events.
func NewKafkaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "storefront"
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	return cfg
}

// DialKafka connects a producer to brokers.
func DialKafka(brokers []string, topic string, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers required")
	}
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaPublisher(producer, topic, logger), nil
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger.Named("kafka"), now: time.Now}
}

// OrderPlaced publishes o keyed by its id so events of one order stay ordered.
func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(OrderEvent{Type: EventOrderPlaced, OccurredAt: p.now().UTC(), Order: o})
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(o.ID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(EventOrderPlaced)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publish %s: %w", EventOrderPlaced, err)
	}
	p.logger.Info("order event published",
		zap.String("order_id", o.ID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
