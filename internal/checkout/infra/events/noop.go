package events

import (
	"context"

	checkoutapp "github.com/honeymart/storefront/internal/checkout/app"
)

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) OrderPlaced(ctx context.Context, evt checkoutapp.OrderPlacedEvent) error {
	return nil
}
