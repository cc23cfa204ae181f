// Package kafka publishes lifecycle notifications to Kafka topics consumed by
// the seller and driver apps.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/IBM/sarama"
)

const (
	// TopicOrderStatusChanged carries order lifecycle transitions.
	TopicOrderStatusChanged = "order-status-changed"

	// TopicPaymentProgress carries reconciliation progress for deposits.
	TopicPaymentProgress = "payment-progress"
)

// orderStatusChangedMessage is the wire format for order transitions.
type orderStatusChangedMessage struct {
	OrderID    string    `json:"order_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// paymentProgressMessage is the wire format for reconciliation steps.
type paymentProgressMessage struct {
	DepositID  string    `json:"deposit_id"`
	Stage      string    `json:"stage"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer implements the event publisher port on top of a Kafka sync producer.
type Producer struct {
	producer sarama.SyncProducer
	logger   *slog.Logger
}

// NewProducer connects a sync producer to the given brokers.
func NewProducer(brokers []string, logger *slog.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &Producer{
		producer: producer,
		logger:   logger.With("component", "kafka_producer"),
	}, nil
}

// PublishOrderStatusChanged announces that an order reached a new status.
func (p *Producer) PublishOrderStatusChanged(
	ctx context.Context, orderID kernel.UUID, from, to order.Status,
) error {
	return p.publish(ctx, TopicOrderStatusChanged, orderID.String(), orderStatusChangedMessage{
		OrderID:    orderID.String(),
		FromStatus: from.String(),
		ToStatus:   to.String(),
		OccurredAt: time.Now().UTC(),
	})
}

// PublishPaymentProgress announces a reconciliation step for a deposit.
func (p *Producer) PublishPaymentProgress(
	ctx context.Context, depositID kernel.UUID, stage string,
) error {
	return p.publish(ctx, TopicPaymentProgress, depositID.String(), paymentProgressMessage{
		DepositID:  depositID.String(),
		Stage:      stage,
		OccurredAt: time.Now().UTC(),
	})
}

// publish serializes the payload and sends it keyed by aggregate id so all
// messages for one aggregate land on the same partition.
func (p *Producer) publish(ctx context.Context, topic, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish message",
			"topic", topic, "key", key, "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "Message published",
		"topic", topic, "partition", partition, "offset", offset)
	return nil
}

// Close shuts down the underlying producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
