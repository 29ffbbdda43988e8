package app

import (
	"context"
	"time"
)

// Line is one reserved-and-charged position of a checkout. Snapshot order is
// preserved all the way through reservation so test runs are deterministic.
type Line struct {
	ProductID string
	Name      string
	Currency  string
	UnitPrice int64
	Quantity  int32
}

// CartAccess reads and clears the buyer's cart. Snapshot must return a
// detached copy; the coordinator never observes live cart mutations.
type CartAccess interface {
	Snapshot(ctx context.Context, buyerID string) ([]Line, error)
	Clear(ctx context.Context, buyerID string) error
}

// Inventory is the stock counter contract. ConditionalDecrement must be a
// single atomic compare-and-decrement per product row: it applies stock -= qty
// only when stock >= qty and reports whether it applied. Increment is the
// compensating inverse.
type Inventory interface {
	ConditionalDecrement(ctx context.Context, productID string, qty int32) (applied bool, err error)
	Increment(ctx context.Context, productID string, qty int32) error
}

type OrderInput struct {
	BuyerID  string
	Token    string
	Currency string
	Lines    []Line
}

type CommittedOrder struct {
	OrderID   string
	Total     int64
	Currency  string
	LineCount int
	CreatedAt time.Time
}

// OrderWriter persists the order header and all lines as one durable write.
// Implementations signal outcomes through the sentinels in errors.go:
// ErrCommitOutcomeUnknown when the write may or may not have landed,
// ErrTokenAlreadyUsed when the checkout token lost a uniqueness race, and
// ErrOrderNotFound from FindByToken.
type OrderWriter interface {
	Create(ctx context.Context, in OrderInput) (CommittedOrder, error)
	FindByToken(ctx context.Context, token string) (CommittedOrder, error)
}

type OrderPlacedEvent struct {
	OrderID   string    `json:"order_id"`
	BuyerID   string    `json:"buyer_id"`
	Total     int64     `json:"total"`
	Currency  string    `json:"currency"`
	LineCount int       `json:"line_count"`
	PlacedAt  time.Time `json:"placed_at"`
}

// EventPublisher announces committed orders. Publication is best-effort and
// never affects the checkout outcome.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, evt OrderPlacedEvent) error
}
