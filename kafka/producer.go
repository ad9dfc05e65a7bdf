package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"storefront-service/models"
)

// ProducerAPI is the slice of the producer the checkout service depends on,
// so tests can swap in a fake.
type ProducerAPI interface {
	SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// SendCheckoutEvent publishes an accepted checkout, keyed by user so one
// user's orders stay ordered within a partition.
func (p *Producer) SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("failed to send Kafka message: %v", err)
		return err
	}
	return nil
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
