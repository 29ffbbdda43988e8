package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	checkoutapp "github.com/honeymart/storefront/internal/checkout/app"
	"github.com/honeymart/storefront/pkg/kafka"
)

// KafkaPublisher announces committed orders on a kafka topic, keyed by order
// id so replays of the same order land on the same partition.
type KafkaPublisher struct {
	writer *kafkago.Writer
}

func NewKafkaPublisher(client *kafka.Client, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: client.NewWriter(topic)}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, evt checkoutapp.OrderPlacedEvent) error {
	return kafka.PublishJSON(ctx, p.writer, evt.OrderID, evt)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
