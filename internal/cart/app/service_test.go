package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/honeymart/storefront/internal/cart/app"
	"github.com/honeymart/storefront/internal/cart/domain"
)

type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]app.Product
}

func (f *fakeCatalog) GetProduct(ctx context.Context, productID string) (app.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[productID]
	if !ok {
		return app.Product{}, errors.New("not found")
	}
	return p, nil
}

func newTestService(products ...app.Product) *app.Service {
	catalog := &fakeCatalog{products: make(map[string]app.Product)}
	for _, p := range products {
		catalog.products[p.ID] = p
	}
	return app.NewService(catalog)
}

func TestService_AddAndSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(app.Product{ID: "p1", Name: "Honey Jar", Currency: "IDR", Amount: 1000, Stock: 5})

	if err := svc.AddItem(ctx, "buyer-1", "p1"); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if err := svc.AddItem(ctx, "buyer-1", "p1"); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	snap, err := svc.Snapshot(ctx, "buyer-1")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap) != 1 || snap[0].Quantity != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	total, err := svc.TotalAmount(ctx, "buyer-1")
	if err != nil {
		t.Fatalf("TotalAmount failed: %v", err)
	}
	if total.Amount != 2000 {
		t.Fatalf("expected total 2000, got %d", total.Amount)
	}
}

func TestService_AddPastListedStock(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(app.Product{ID: "p1", Name: "Honey Jar", Currency: "IDR", Amount: 1000, Stock: 1})

	if err := svc.AddItem(ctx, "buyer-1", "p1"); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	err := svc.AddItem(ctx, "buyer-1", "p1")
	if !errors.Is(err, domain.ErrStockExceeded) {
		t.Fatalf("expected ErrStockExceeded, got %v", err)
	}
}

func TestService_BuyersAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(app.Product{ID: "p1", Name: "Honey Jar", Currency: "IDR", Amount: 1000, Stock: 10})

	if err := svc.AddItem(ctx, "buyer-1", "p1"); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	snap, err := svc.Snapshot(ctx, "buyer-2")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("expected empty cart for buyer-2, got %+v", snap)
	}
}

func TestService_ConcurrentAddsSingleCart(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(app.Product{ID: "p1", Name: "Honey Jar", Currency: "IDR", Amount: 1000, Stock: 1000})

	const N = 100
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		g.Go(func() error {
			return svc.AddItem(gctx, "buyer-1", "p1")
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent AddItem failed: %v", err)
	}

	snap, err := svc.Snapshot(ctx, "buyer-1")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap) != 1 {
		t.Fatalf("expected a single line, got %d", len(snap))
	}
	if snap[0].Quantity != N {
		t.Fatalf("expected quantity %d, got %d", N, snap[0].Quantity)
	}
}
