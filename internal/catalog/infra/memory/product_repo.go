package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/honeymart/storefront/internal/catalog/app"
	"github.com/honeymart/storefront/internal/catalog/domain"
)

// ProductRepo is the in-memory products store, used for local runs and tests.
// It honors the same contract as the postgres adapter: the stock comparison
// and the decrement happen under one lock acquisition, never as a separate
// read followed by a write.
type ProductRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{
		products: make(map[string]domain.Product),
	}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.products[p.ID] = p
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			continue
		}
		if cursor != "" && p.ID <= cursor {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if len(all) > limit {
		all = all[:limit]
	}

	nextCursor := ""
	if len(all) == limit {
		nextCursor = all[len(all)-1].ID
	}
	return all, nextCursor, nil
}

func (r *ProductRepo) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Product
	for _, p := range r.products {
		if p.Stock > 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[p.ID]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.products[p.ID] = p
	return p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return app.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepo) ConditionalDecrement(ctx context.Context, productID string, qty int32) (bool, error) {
	_ = ctx

	if qty <= 0 {
		return false, app.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return false, nil
	}
	if p.Stock < qty {
		return false, nil
	}

	p.Stock -= qty
	p.UpdatedAt = time.Now().UTC()
	r.products[productID] = p
	return true, nil
}

func (r *ProductRepo) Increment(ctx context.Context, productID string, qty int32) error {
	_ = ctx

	if qty <= 0 {
		return app.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return app.ErrNotFound
	}

	p.Stock += qty
	p.UpdatedAt = time.Now().UTC()
	r.products[productID] = p
	return nil
}

// Seed populates a product directly, for bootstrap code and tests.
func (r *ProductRepo) Seed(p domain.Product) domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.products[p.ID] = p
	return p
}
