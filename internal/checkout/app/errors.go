package app

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated: no buyer identity. The auth layer checks this
	// before calling; the coordinator only rejects defensively.
	ErrUnauthenticated = errors.New("checkout requires an authenticated buyer")

	ErrEmptyCart = errors.New("cart is empty")

	// ErrOrderPersistenceFailed: the order write definitely failed after
	// reservation succeeded; every reservation has been rolled back.
	ErrOrderPersistenceFailed = errors.New("order could not be persisted")

	// ErrIndeterminateCommit: the order write's outcome is unknown and could
	// not be resolved. Reservations are NOT compensated; the buyer must check
	// order history before retrying.
	ErrIndeterminateCommit = errors.New("order commit outcome unknown, check order history before retrying")

	// ErrStoreUnavailable: transient store failure. Reservations applied
	// before the failure have been rolled back, so the whole checkout is safe
	// to retry from scratch.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Sentinels OrderWriter implementations use to signal outcomes.
	ErrOrderNotFound        = errors.New("order not found")
	ErrTokenAlreadyUsed     = errors.New("checkout token already used")
	ErrCommitOutcomeUnknown = errors.New("order write outcome unknown")
)

// InsufficientStockError names the first product whose reservation failed.
// All reservations applied earlier in the same checkout were compensated
// before this error surfaced.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}
