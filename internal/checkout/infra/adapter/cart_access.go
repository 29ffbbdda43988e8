package adapter

import (
	"context"

	cartapp "github.com/honeymart/storefront/internal/cart/app"
	checkoutapp "github.com/honeymart/storefront/internal/checkout/app"
)

type CartServiceAccess struct {
	svc *cartapp.Service
}

func NewCartServiceAccess(svc *cartapp.Service) *CartServiceAccess {
	return &CartServiceAccess{svc: svc}
}

func (a *CartServiceAccess) Snapshot(ctx context.Context, buyerID string) ([]checkoutapp.Line, error) {
	lines, err := a.svc.Snapshot(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	out := make([]checkoutapp.Line, 0, len(lines))
	for _, ln := range lines {
		out = append(out, checkoutapp.Line{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Currency:  ln.UnitPrice.Currency,
			UnitPrice: ln.UnitPrice.Amount,
			Quantity:  ln.Quantity,
		})
	}
	return out, nil
}

func (a *CartServiceAccess) Clear(ctx context.Context, buyerID string) error {
	return a.svc.Clear(ctx, buyerID)
}
