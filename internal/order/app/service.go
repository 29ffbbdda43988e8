package app

import (
	"context"
	"fmt"

	"github.com/honeymart/storefront/internal/order/domain"
)

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if req.BuyerID == "" {
		return domain.Order{}, fmt.Errorf("buyer id is required")
	}
	if len(req.Items) == 0 {
		return domain.Order{}, fmt.Errorf("order must have at least one line")
	}

	lines := make([]domain.Line, 0, len(req.Items))
	var total int64

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("item %d: quantity must be positive, got %d", i, item.Quantity)
		}
		if item.UnitPrice < 0 {
			return domain.Order{}, fmt.Errorf("item %d: unit price cannot be negative, got %d", i, item.UnitPrice)
		}

		lineTotal := item.UnitPrice * int64(item.Quantity)
		lines = append(lines, domain.Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}

	order := domain.Order{
		BuyerID:       req.BuyerID,
		Status:        domain.StatusCommitted,
		Currency:      req.Currency,
		TotalAmount:   total,
		CheckoutToken: req.CheckoutToken,
		Lines:         lines,
	}

	return s.repo.CreateOrderTx(ctx, order)
}

func (s *Service) FindByToken(ctx context.Context, token string) (domain.Order, error) {
	if token == "" {
		return domain.Order{}, ErrNotFound
	}
	return s.repo.GetByToken(ctx, token)
}
