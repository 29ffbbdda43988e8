package app

import (
	"context"
	"errors"

	"github.com/honeymart/storefront/internal/order/domain"
)

var (
	ErrNotFound = errors.New("order not found")

	// ErrDuplicateToken reports that an order with the same checkout token
	// already exists; the caller should fetch that order instead of retrying.
	ErrDuplicateToken = errors.New("checkout token already used")

	// ErrIndeterminateOutcome reports that the store cannot tell whether the
	// order write committed. Callers must re-check before compensating.
	ErrIndeterminateOutcome = errors.New("order write outcome unknown")
)

type OrderRepo interface {
	// CreateOrderTx writes the order header and every line in one durable,
	// all-or-nothing write.
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
	GetByToken(ctx context.Context, token string) (domain.Order, error)
}
