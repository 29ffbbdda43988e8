package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/honeymart/storefront/internal/checkout/domain"
)

// Coordinator is the only path by which a cart snapshot becomes a durable
// order. It runs a two-phase protocol: reserve stock per line with atomic
// conditional decrements, then persist the order in one write. Any failure
// before a definite commit undoes every decrement already applied, so other
// buyers never observe partially-decremented inventory.
type Coordinator struct {
	cart      CartAccess
	inventory Inventory
	orders    OrderWriter
	events    EventPublisher
	log       *slog.Logger
}

func NewCoordinator(cart CartAccess, inventory Inventory, orders OrderWriter, events EventPublisher, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		cart:      cart,
		inventory: inventory,
		orders:    orders,
		events:    events,
		log:       log,
	}
}

// Checkout turns the buyer's current cart into a committed order. token is an
// optional client-supplied idempotency key: a replay with a token that already
// committed returns the existing order without touching inventory.
func (c *Coordinator) Checkout(ctx context.Context, buyerID, token string) (domain.Receipt, error) {
	if buyerID == "" {
		return domain.Receipt{}, ErrUnauthenticated
	}

	// The token lookup runs before the cart is even read: a buyer whose
	// success response was lost retries with an already-cleared cart, and
	// must get the committed order back rather than ErrEmptyCart.
	if token != "" {
		rec, err := c.orders.FindByToken(ctx, token)
		if err == nil {
			c.log.Info("checkout token replay, returning existing order",
				slog.String("buyer_id", buyerID), slog.String("order_id", rec.OrderID))
			return c.finalize(ctx, buyerID, rec), nil
		}
		if !errors.Is(err, ErrOrderNotFound) {
			// No reservation applied yet, so a full retry is safe.
			return domain.Receipt{}, fmt.Errorf("%w: token lookup: %v", ErrStoreUnavailable, err)
		}
	}

	snapshot, err := c.cart.Snapshot(ctx, buyerID)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%w: read cart: %v", ErrStoreUnavailable, err)
	}
	if len(snapshot) == 0 {
		return domain.Receipt{}, ErrEmptyCart
	}

	// Reservation phase: lines in snapshot order, each decrement atomic
	// against the store. First refusal aborts and compensates everything
	// applied so far.
	reserved := make([]Line, 0, len(snapshot))
	for _, ln := range snapshot {
		applied, err := c.inventory.ConditionalDecrement(ctx, ln.ProductID, ln.Quantity)
		if err != nil {
			c.release(ctx, buyerID, reserved)
			return domain.Receipt{}, fmt.Errorf("%w: reserve %s: %v", ErrStoreUnavailable, ln.ProductID, err)
		}
		if !applied {
			c.release(ctx, buyerID, reserved)
			return domain.Receipt{}, &InsufficientStockError{ProductID: ln.ProductID}
		}
		reserved = append(reserved, ln)
	}

	// Commit phase: one durable write for header plus lines.
	rec, err := c.orders.Create(ctx, OrderInput{
		BuyerID:  buyerID,
		Token:    token,
		Currency: snapshot[0].Currency,
		Lines:    snapshot,
	})
	if err != nil {
		return c.resolveCommitFailure(ctx, buyerID, token, reserved, err)
	}

	return c.finalize(ctx, buyerID, rec), nil
}

// resolveCommitFailure decides between rollback and standing pat after the
// order write did not return success.
func (c *Coordinator) resolveCommitFailure(ctx context.Context, buyerID, token string, reserved []Line, cause error) (domain.Receipt, error) {
	switch {
	case errors.Is(cause, ErrTokenAlreadyUsed):
		// A concurrent replay with the same token won the race and committed
		// with its own reservations. Ours are surplus: give them back and
		// hand out the order that did commit.
		c.release(ctx, buyerID, reserved)
		rec, err := c.orders.FindByToken(ctx, token)
		if err != nil {
			return domain.Receipt{}, fmt.Errorf("%w: %v", ErrIndeterminateCommit, err)
		}
		return c.finalize(ctx, buyerID, rec), nil

	case errors.Is(cause, ErrCommitOutcomeUnknown):
		if token == "" {
			// Nothing to re-check by. Compensating now could refund stock
			// for an order that actually committed, so leave it alone.
			c.log.Warn("order commit outcome unknown and no token to re-check",
				slog.String("buyer_id", buyerID), slog.Any("err", cause))
			return domain.Receipt{}, ErrIndeterminateCommit
		}
		rec, err := c.orders.FindByToken(ctx, token)
		if err == nil {
			return c.finalize(ctx, buyerID, rec), nil
		}
		if errors.Is(err, ErrOrderNotFound) {
			// Definitely not written: reservations can be returned.
			c.release(ctx, buyerID, reserved)
			return domain.Receipt{}, fmt.Errorf("%w: %v", ErrOrderPersistenceFailed, cause)
		}
		c.log.Warn("order commit re-check failed",
			slog.String("buyer_id", buyerID), slog.Any("err", err))
		return domain.Receipt{}, ErrIndeterminateCommit

	default:
		c.release(ctx, buyerID, reserved)
		return domain.Receipt{}, fmt.Errorf("%w: %v", ErrOrderPersistenceFailed, cause)
	}
}

func (c *Coordinator) finalize(ctx context.Context, buyerID string, rec CommittedOrder) domain.Receipt {
	if err := c.cart.Clear(ctx, buyerID); err != nil {
		c.log.Error("cart clear failed after commit", slog.String("buyer_id", buyerID), slog.Any("err", err))
	}

	if c.events != nil {
		evt := OrderPlacedEvent{
			OrderID:   rec.OrderID,
			BuyerID:   buyerID,
			Total:     rec.Total,
			Currency:  rec.Currency,
			LineCount: rec.LineCount,
			PlacedAt:  rec.CreatedAt,
		}
		if err := c.events.OrderPlaced(context.WithoutCancel(ctx), evt); err != nil {
			c.log.Warn("order event publish failed", slog.String("order_id", rec.OrderID), slog.Any("err", err))
		}
	}

	return domain.Receipt{
		OrderID:   rec.OrderID,
		Total:     domain.Money{Currency: rec.Currency, Amount: rec.Total},
		LineCount: rec.LineCount,
		CreatedAt: rec.CreatedAt,
	}
}

// release gives back every reservation applied in this call, newest first.
// It runs on a cancellation-immune context: compensation must proceed even
// when the failure that triggered it was the caller's deadline expiring.
func (c *Coordinator) release(ctx context.Context, buyerID string, reserved []Line) {
	ctx = context.WithoutCancel(ctx)
	for i := len(reserved) - 1; i >= 0; i-- {
		ln := reserved[i]
		if err := c.inventory.Increment(ctx, ln.ProductID, ln.Quantity); err != nil {
			// Stock is now undercounted for this product. There is no safe
			// automatic recovery; flag it for reconciliation.
			c.log.Error("FATAL: stock compensation failed, inventory inconsistent",
				slog.String("buyer_id", buyerID),
				slog.String("product_id", ln.ProductID),
				slog.Int("quantity", int(ln.Quantity)),
				slog.Any("err", err))
		}
	}
}
