package adapter

import (
	"context"
	"errors"
	"fmt"

	checkoutapp "github.com/honeymart/storefront/internal/checkout/app"
	orderapp "github.com/honeymart/storefront/internal/order/app"
	orderdomain "github.com/honeymart/storefront/internal/order/domain"
)

// OrderServiceWriter binds the order service to the coordinator's port,
// translating store outcomes into the coordinator's sentinels.
type OrderServiceWriter struct {
	svc *orderapp.Service
}

func NewOrderServiceWriter(svc *orderapp.Service) *OrderServiceWriter {
	return &OrderServiceWriter{svc: svc}
}

func (a *OrderServiceWriter) Create(ctx context.Context, in checkoutapp.OrderInput) (checkoutapp.CommittedOrder, error) {
	items := make([]orderdomain.LineRequest, 0, len(in.Lines))
	for _, ln := range in.Lines {
		items = append(items, orderdomain.LineRequest{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			UnitPrice: ln.UnitPrice,
			Quantity:  ln.Quantity,
		})
	}

	order, err := a.svc.CreateOrder(ctx, orderdomain.CreateOrderRequest{
		BuyerID:       in.BuyerID,
		Currency:      in.Currency,
		CheckoutToken: in.Token,
		Items:         items,
	})
	if err != nil {
		return checkoutapp.CommittedOrder{}, mapOrderErr(err)
	}

	return toCommitted(order), nil
}

func (a *OrderServiceWriter) FindByToken(ctx context.Context, token string) (checkoutapp.CommittedOrder, error) {
	order, err := a.svc.FindByToken(ctx, token)
	if err != nil {
		return checkoutapp.CommittedOrder{}, mapOrderErr(err)
	}
	return toCommitted(order), nil
}

func mapOrderErr(err error) error {
	switch {
	case errors.Is(err, orderapp.ErrNotFound):
		return checkoutapp.ErrOrderNotFound
	case errors.Is(err, orderapp.ErrDuplicateToken):
		return checkoutapp.ErrTokenAlreadyUsed
	case errors.Is(err, orderapp.ErrIndeterminateOutcome):
		return fmt.Errorf("%w: %v", checkoutapp.ErrCommitOutcomeUnknown, err)
	default:
		return err
	}
}

func toCommitted(order orderdomain.Order) checkoutapp.CommittedOrder {
	return checkoutapp.CommittedOrder{
		OrderID:   order.ID,
		Total:     order.TotalAmount,
		Currency:  order.Currency,
		LineCount: len(order.Lines),
		CreatedAt: order.CreatedAt,
	}
}
