package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/honeymart/storefront/internal/order/app"
	"github.com/honeymart/storefront/internal/order/domain"
)

// OrderRepo is the in-memory order store for local runs and tests. It keeps
// the postgres adapter's contract: the whole order is written or none of it,
// and a reused checkout token is rejected with ErrDuplicateToken.
type OrderRepo struct {
	mu      sync.Mutex
	orders  map[string]domain.Order
	byToken map[string]string
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{
		orders:  make(map[string]domain.Order),
		byToken: make(map[string]string),
	}
}

func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if order.CheckoutToken != "" {
		if _, exists := r.byToken[order.CheckoutToken]; exists {
			return domain.Order{}, app.ErrDuplicateToken
		}
	}

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()

	lines := make([]domain.Line, len(order.Lines))
	for i, ln := range order.Lines {
		ln.ID = uuid.NewString()
		ln.OrderID = order.ID
		lines[i] = ln
	}
	order.Lines = lines

	r.orders[order.ID] = order
	if order.CheckoutToken != "" {
		r.byToken[order.CheckoutToken] = order.ID
	}
	return order, nil
}

func (r *OrderRepo) GetByToken(ctx context.Context, token string) (domain.Order, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byToken[token]
	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	return r.orders[id], nil
}
