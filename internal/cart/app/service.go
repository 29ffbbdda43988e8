package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/honeymart/storefront/internal/cart/domain"
)

// CatalogReader is the slice of the catalog the cart needs: the product's
// display data and the stock figure the buyer just saw.
type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID       string
	Name     string
	Currency string
	Amount   int64
	Stock    int32
}

// Service keeps one cart per buyer. The mutex guards the registry and
// serializes mutations per process; each cart itself stays a plain value
// object with a single logical owner.
type Service struct {
	catalog CatalogReader

	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewService(catalog CatalogReader) *Service {
	return &Service{
		catalog: catalog,
		carts:   make(map[string]*domain.Cart),
	}
}

// AddItem looks the product up and adds one unit to the buyer's cart, using
// the listed stock as the cart-side cap.
func (s *Service) AddItem(ctx context.Context, buyerID, productID string) error {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("look up product %s: %w", productID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getOrCreate(buyerID)
	return cart.Add(p.ID, p.Name, domain.Money{Currency: p.Currency, Amount: p.Amount}, p.Stock)
}

func (s *Service) RemoveItem(ctx context.Context, buyerID, productID string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreate(buyerID).Remove(productID)
	return nil
}

// Snapshot hands out a detached copy of the buyer's current lines.
func (s *Service) Snapshot(ctx context.Context, buyerID string) ([]domain.Line, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getOrCreate(buyerID).Snapshot(), nil
}

func (s *Service) TotalAmount(ctx context.Context, buyerID string) (domain.Money, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getOrCreate(buyerID).TotalAmount(), nil
}

func (s *Service) Clear(ctx context.Context, buyerID string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreate(buyerID).Clear()
	return nil
}

func (s *Service) getOrCreate(buyerID string) *domain.Cart {
	if cart, ok := s.carts[buyerID]; ok {
		return cart
	}
	cart := domain.NewCart()
	s.carts[buyerID] = cart
	return cart
}
